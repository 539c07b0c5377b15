// Package pinning is a stateless adapter to a Pinata-style IPFS pinning
// service: JSON blobs go up through the pinning API and come back down
// through a public gateway, addressed only by CID. Single attempt per
// call; retries are the caller's business, if anyone's.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	defaultPinURL  = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	defaultGateway = "https://gateway.pinata.cloud"
	defaultTimeout = 30 * time.Second
)

// UploadError wraps a failed pin write (unreachable service, rejected
// payload). The underlying transport error is preserved for logs.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("pin upload: %v", e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// RetrievalError wraps a failed gateway read for a given CID.
type RetrievalError struct {
	CID string
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("pin fetch %s: %v", e.CID, e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// Pinner is the capability the storage layer depends on. Tests substitute
// a fake; production wires *Client.
type Pinner interface {
	// Upload pins v as canonical JSON and returns the CID.
	Upload(ctx context.Context, v any) (string, error)
	// Fetch reads the blob for cid from the gateway and decodes it into out.
	Fetch(ctx context.Context, cid string, out any) error
}

type Config struct {
	APIKey    string
	SecretKey string
	// PinURL and GatewayURL default to Pinata's public endpoints;
	// overridable for tests.
	PinURL     string
	GatewayURL string
	Timeout    time.Duration
}

type Client struct {
	cfg   Config
	httpc *http.Client
}

var _ Pinner = (*Client)(nil)

// New builds a pinning client. Missing credentials are a constructor
// error: fatal for the remote backend, irrelevant to every other backend.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("pinning: api key and secret key are required")
	}
	if cfg.PinURL == "" {
		cfg.PinURL = defaultPinURL
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = defaultGateway
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout, Transport: tr},
	}, nil
}

type pinRequest struct {
	PinataContent  any         `json:"pinataContent"`
	PinataMetadata pinMetadata `json:"pinataMetadata"`
}

type pinMetadata struct {
	Name string `json:"name"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (c *Client) Upload(ctx context.Context, v any) (string, error) {
	body, err := json.Marshal(pinRequest{
		PinataContent:  v,
		PinataMetadata: pinMetadata{Name: fmt.Sprintf("incident-%d", time.Now().UnixMilli())},
	})
	if err != nil {
		return "", &UploadError{Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PinURL, bytes.NewReader(body))
	if err != nil {
		return "", &UploadError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", c.cfg.APIKey)
	req.Header.Set("pinata_secret_api_key", c.cfg.SecretKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", &UploadError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if pr.IpfsHash == "" {
		return "", &UploadError{Err: errors.New("response missing IpfsHash")}
	}
	return pr.IpfsHash, nil
}

func (c *Client) Fetch(ctx context.Context, cid string, out any) error {
	url := fmt.Sprintf("%s/ipfs/%s", c.cfg.GatewayURL, cid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &RetrievalError{CID: cid, Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &RetrievalError{CID: cid, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RetrievalError{CID: cid, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RetrievalError{CID: cid, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

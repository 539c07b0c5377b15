package transporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/incidents-api/internal/config"
	"example.com/incidents-api/internal/domain"
	"example.com/incidents-api/internal/metrics"
	"example.com/incidents-api/internal/pinning"
	"example.com/incidents-api/internal/storage"
)

type ServerDeps struct {
	Cfg     config.Config
	Store   storage.Store
	Metrics *metrics.Metrics
	Now     func() time.Time
	// Ready reports backend health for /readyz; nil means always ready
	// (memory and ipfs backends have nothing to dial).
	Ready func(ctx context.Context) error
}

// decodeJSON tolerates unknown keys: form clients send UI-state fields
// alongside the draft and the validator ignores them anyway.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Health ---

func (d *ServerDeps) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (d *ServerDeps) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if d.Ready != nil {
		if err := d.Ready(r.Context()); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "storage backend not reachable", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// --- Incidents ---

func (d *ServerDeps) HandleGetIncident(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "incident id must be an integer", nil)
		return
	}
	rec, err := d.Store.GetIncident(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Incident not found", nil)
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

func (d *ServerDeps) HandleSearchIncidents(w http.ResponseWriter, r *http.Request) {
	params, ferrs := domain.ParseSearchParams(r.URL.Query())
	if len(ferrs) > 0 {
		WriteError(w, http.StatusBadRequest, "Invalid search parameters", fieldErrorMap(ferrs))
		return
	}
	results, err := d.Store.SearchIncidents(r.Context(), params)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

func (d *ServerDeps) HandleCreateIncident(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	var in domain.DraftInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}
	draft, ferrs := domain.ValidateDraft(&in)
	if len(ferrs) > 0 {
		WriteError(w, http.StatusBadRequest, "Invalid incident data", fieldErrorMap(ferrs))
		return
	}

	rec, err := d.Store.CreateIncident(r.Context(), draft)
	if err != nil {
		var ue *pinning.UploadError
		if errors.As(err, &ue) {
			log.Printf("[api] create rejected, pin upload failed: %v", ue)
			WriteError(w, http.StatusBadGateway, "failed to persist incident to remote store", nil)
			return
		}
		log.Printf("[api] create failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	d.Metrics.ObserveCreated()
	log.Printf("[api] created incident id=%d location=%q", rec.ID, rec.Location)
	WriteJSON(w, http.StatusCreated, rec)
}

func (d *ServerDeps) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := d.Store.Clear(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to clear storage", nil)
		return
	}
	log.Printf("[api] storage cleared")
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Storage cleared successfully"})
}

// --- Router ---

func (d *ServerDeps) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", d.HandleHealthz)
	mux.HandleFunc("/readyz", d.HandleReadyz)
	mux.Handle("/metrics", promhttp.Handler())

	auth := APIKeyAuth(d.Cfg.APIKeys)

	var getOne http.Handler = http.HandlerFunc(d.HandleGetIncident)
	getOne = CountRequests(d.Metrics, "get_incident")(getOne)
	mux.Handle("GET /api/incidents/{id}", getOne)

	var searchH http.Handler = http.HandlerFunc(d.HandleSearchIncidents)
	searchH = RateLimitPerMinute(d.Cfg.RateLimitSearchPerMin, d.Now)(searchH)
	searchH = CountRequests(d.Metrics, "search_incidents")(searchH)
	mux.Handle("GET /api/incidents", searchH)

	var createH http.Handler = http.HandlerFunc(d.HandleCreateIncident)
	createH = BodyLimit(d.Cfg.MaxBodyBytes)(createH)
	createH = RequireJSON(createH)
	createH = auth(createH)
	createH = CountRequests(d.Metrics, "create_incident")(createH)
	mux.Handle("POST /api/incidents", createH)

	var clearH http.Handler = http.HandlerFunc(d.HandleClear)
	clearH = auth(clearH)
	clearH = CountRequests(d.Metrics, "clear")(clearH)
	mux.Handle("POST /api/clear", clearH)

	return mux
}

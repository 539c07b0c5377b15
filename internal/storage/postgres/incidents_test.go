package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "New York, NY", "New York, NY"},
		{"percent is literal", "100%", `100\%`},
		{"underscore is literal", "officer_name", `officer\_name`},
		{"backslash escaped first", `C:\temp`, `C:\\temp`},
		{"mixed metacharacters", `%_\`, `\%\_\\`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escapeLike(tc.in))
		})
	}
}

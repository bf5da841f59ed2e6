package http

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseOrigins(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		origins []string
	}{
		{"empty", "", nil},
		{"single", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"several", "http://a.example,http://b.example", []string{"http://a.example", "http://b.example"}},
		{"spaces and blanks", " http://a.example , ,http://b.example, ", []string{"http://a.example", "http://b.example"}},
		{"only commas", ",,", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.origins, ParseOrigins(tc.input))
		})
	}
}

func TestNewCORSConfig(t *testing.T) {
	testCases := []struct {
		name     string
		allowAll bool
		origins  string
		expected []string
	}{
		{"allow all ignores list", true, "http://a.example", []string{"*"}},
		{"explicit list", false, "http://a.example, http://b.example", []string{"http://a.example", "http://b.example"}},
		{"empty list keeps default", false, "", []string{"http://localhost:5173"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewCORSConfig(tc.allowAll, tc.origins)
			assert.Equal(t, tc.expected, cfg.AllowedOrigins)
		})
	}
}

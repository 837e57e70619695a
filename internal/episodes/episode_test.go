package episodes_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ledgercast/ledgercast/internal/episodes"
)

func TestParseStatus(t *testing.T) {
	for _, status := range episodes.Statuses() {
		parsed, err := episodes.ParseStatus(string(status))
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", status, err)
		}
		if parsed != status {
			t.Errorf("ParseStatus(%q) = %q", status, parsed)
		}
	}

	if _, err := episodes.ParseStatus("archived"); !errors.Is(err, episodes.ErrInvalidStatus) {
		t.Errorf("ParseStatus(archived) error = %v, want ErrInvalidStatus", err)
	}
}

func TestCanGenerate(t *testing.T) {
	cases := []struct {
		status episodes.Status
		want   bool
	}{
		{episodes.StatusPending, true},
		{episodes.StatusProcessing, false},
		{episodes.StatusComplete, true},
		{episodes.StatusFailed, true},
	}

	for _, tc := range cases {
		if got := tc.status.CanGenerate(); got != tc.want {
			t.Errorf("%s.CanGenerate() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{episodes.ErrNotFound, http.StatusNotFound},
		{episodes.ErrNoAudio, http.StatusNotFound},
		{episodes.ErrAlreadyProcessing, http.StatusConflict},
		{episodes.ErrInvalidSourceURL, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := episodes.MapHTTPStatus(tc.err); got != tc.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

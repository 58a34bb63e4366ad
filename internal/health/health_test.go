package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func get(t *testing.T, h http.Handler, path string) (int, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("%s: decode body: %v", path, err)
	}
	return rec.Code, body
}

func TestEndpoints(t *testing.T) {
	failing := func(context.Context) error { return errors.New("synth broken") }
	passing := func(context.Context) error { return nil }

	tests := []struct {
		name        string
		ready       bool
		check       Check
		wantHealthz int
		wantReadyz  int
		wantStatus  string
	}{
		{"not ready", false, passing, http.StatusServiceUnavailable, http.StatusServiceUnavailable, "not_ready"},
		{"ready without check", true, nil, http.StatusOK, http.StatusOK, "ok"},
		{"ready with passing check", true, passing, http.StatusOK, http.StatusOK, "ok"},
		{"ready with failing check", true, failing, http.StatusOK, http.StatusServiceUnavailable, "check_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(0)
			s.SetReady(tt.ready)
			if tt.check != nil {
				s.SetCheck(tt.check)
			}
			h := s.Handler()

			if code, _ := get(t, h, "/healthz"); code != tt.wantHealthz {
				t.Errorf("/healthz = %d, want %d", code, tt.wantHealthz)
			}
			code, body := get(t, h, "/readyz")
			if code != tt.wantReadyz {
				t.Errorf("/readyz = %d, want %d", code, tt.wantReadyz)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("/readyz status = %q, want %q", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestReadyz_CheckGetsDeadline(t *testing.T) {
	s := New(0)
	s.SetReady(true)
	var hasDeadline bool
	s.SetCheck(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})
	get(t, s.Handler(), "/readyz")
	if !hasDeadline {
		t.Error("check context has no deadline")
	}
}

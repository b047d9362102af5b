package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(origin string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return WithCORS(CORSPolicy{
		AllowedOrigin:    origin,
		AllowedMethods:   []string{"GET", "POST", "PATCH"},
		AllowCredentials: true,
	})(next)
}

func TestWithCORS_AllowedOrigin(t *testing.T) {
	h := corsHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/appointments/week", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	if got := rw.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
	if rw.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("expected credentials header")
	}
}

func TestWithCORS_RejectsOtherOrigins(t *testing.T) {
	h := corsHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/appointments/week", nil)
	req.Header.Set("Origin", "http://evil.example")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if rw.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %d", rw.Code)
	}
}

func TestWithCORS_NoOriginPassesThrough(t *testing.T) {
	h := corsHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200 for originless request, got %d", rw.Code)
	}
	if rw.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("originless request should not receive CORS headers")
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	h := corsHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/appointments/book", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if rw.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight response, got %d", rw.Code)
	}
}

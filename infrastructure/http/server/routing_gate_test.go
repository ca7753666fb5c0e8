package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestRoutingGate_IsAppHost(t *testing.T) {
	gate := NewRoutingGate("app", AuthenticatorFunc(func(*http.Request) bool { return false }), http.NotFoundHandler(), slog.Default())

	tests := []struct {
		host string
		want bool
	}{
		{"app.localhost:3000", true},
		{"app.localhost", true},
		{"localhost:3000", false},
		{"app.align.co", true},
		{"APP.align.co", true},
		{"align.co", false},
		{"www.align.co", false},
		{"app.co", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.want, gate.IsAppHost(tt.host))
		})
	}
}

func TestRoutingGate_ServeHTTP(t *testing.T) {
	var served string
	pages := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	anonymous := NewRoutingGate("app", AuthenticatorFunc(func(*http.Request) bool { return false }), pages, log)
	signedIn := NewRoutingGate("app", AuthenticatorFunc(func(*http.Request) bool { return true }), pages, log)

	serve := func(gate *RoutingGate, host, target string) *httptest.ResponseRecorder {
		served = ""
		r := httptest.NewRequest(http.MethodGet, target, nil)
		r.Host = host
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, r)
		return rec
	}

	t.Run("should rewrite the app subdomain into the app surface", func(t *testing.T) {
		req := require.New(t)
		rec := serve(signedIn, "app.align.co", "/vent")
		req.Equal(http.StatusOK, rec.Code)
		req.Equal("/app/vent", served)
	})

	t.Run("should redirect anonymous visitors to the entry", func(t *testing.T) {
		req := require.New(t)
		rec := serve(anonymous, "app.localhost:3000", "/dashboard")
		req.Equal(http.StatusSeeOther, rec.Code)
		req.Equal("/", rec.Header().Get("Location"))
		req.Empty(served)

		rec = serve(anonymous, "align.co", "/app/mediate")
		req.Equal(http.StatusSeeOther, rec.Code)
		req.Equal("/app", rec.Header().Get("Location"))
	})

	t.Run("should serve the entry to anonymous visitors", func(t *testing.T) {
		req := require.New(t)
		rec := serve(anonymous, "app.align.co", "/")
		req.Equal(http.StatusOK, rec.Code)
		req.Equal("/app/", served)
	})

	t.Run("should send signed in visitors from the entry to the dashboard", func(t *testing.T) {
		req := require.New(t)
		rec := serve(signedIn, "app.align.co", "/")
		req.Equal(http.StatusSeeOther, rec.Code)
		req.Equal("/dashboard", rec.Header().Get("Location"))

		rec = serve(signedIn, "align.co", "/app")
		req.Equal(http.StatusSeeOther, rec.Code)
		req.Equal("/app/dashboard", rec.Header().Get("Location"))
	})

	t.Run("should leave the marketing surface and static assets alone", func(t *testing.T) {
		req := require.New(t)
		rec := serve(anonymous, "align.co", "/")
		req.Equal(http.StatusOK, rec.Code)
		req.Equal("/", served)

		rec = serve(anonymous, "app.align.co", "/logo.svg")
		req.Equal(http.StatusOK, rec.Code)
		req.Equal("/logo.svg", served)
	})
}

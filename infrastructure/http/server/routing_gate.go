package server

import (
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
)

const (
	appPrefix     = "/app"
	dashboardPath = "/dashboard"
)

var staticExtensions = map[string]struct{}{
	".svg": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
	".css": {}, ".js": {}, ".map": {}, ".woff": {}, ".woff2": {},
}

// Authenticator reports whether a request carries a valid identity.
type Authenticator interface {
	IsAuthenticated(r *http.Request) bool
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(r *http.Request) bool

func (f AuthenticatorFunc) IsAuthenticated(r *http.Request) bool {
	return f(r)
}

// RoutingGate selects the page surface from the Host header and guards the app surface.
// On the app subdomain the visible path "/x" is served as "/app/x".
type RoutingGate struct {
	subdomain string
	auth      Authenticator
	pages     http.Handler
	log       *slog.Logger
}

func NewRoutingGate(subdomain string, auth Authenticator, pages http.Handler, log *slog.Logger) *RoutingGate {
	if subdomain == "" {
		subdomain = "app"
	}
	return &RoutingGate{subdomain: subdomain, auth: auth, pages: pages, log: log}
}

func (g *RoutingGate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if isStatic(r.URL.Path) {
		g.pages.ServeHTTP(w, r)
		return
	}

	onSubdomain := g.IsAppHost(r.Host)
	internal := r.URL.Path
	if onSubdomain {
		internal = appPrefix + r.URL.Path
	}
	if !isAppPath(internal) {
		g.pages.ServeHTTP(w, r)
		return
	}

	// Redirects stay in the namespace the browser sees
	visible := func(p string) string {
		if onSubdomain {
			return strings.TrimPrefix(p, appPrefix)
		}
		return p
	}
	entry := visible(appPrefix)
	if entry == "" {
		entry = "/"
	}

	authenticated := g.auth.IsAuthenticated(r)
	atEntry := path.Clean(internal) == appPrefix
	switch {
	case atEntry && authenticated:
		http.Redirect(w, r, visible(appPrefix+dashboardPath), http.StatusSeeOther)
		return
	case !atEntry && !authenticated:
		g.log.Debug("Unauthenticated access to app surface", "path", internal)
		http.Redirect(w, r, entry, http.StatusSeeOther)
		return
	}

	rewritten := r.Clone(r.Context())
	rewritten.URL.Path = internal
	rewritten.URL.RawPath = ""
	g.pages.ServeHTTP(w, rewritten)
}

// IsAppHost recognizes "app.localhost[:port]" in development
// and "app.<domain>.<tld>" (at least three labels) in production.
func (g *RoutingGate) IsAppHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	labels := strings.Split(strings.ToLower(host), ".")
	if labels[0] != g.subdomain {
		return false
	}
	if labels[len(labels)-1] == "localhost" {
		return len(labels) >= 2
	}
	return len(labels) >= 3
}

func isAppPath(p string) bool {
	return p == appPrefix || strings.HasPrefix(p, appPrefix+"/")
}

func isStatic(p string) bool {
	if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/_next/") || p == "/favicon.ico" {
		return true
	}
	_, ok := staticExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

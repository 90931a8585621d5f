package proxy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/folio/internal/adapters/driven/upstream"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// MaxRequestBody caps how much of a client body is buffered for forwarding.
const MaxRequestBody = 10 << 20

// frontendSearchPath is the frontend's search results page.
const frontendSearchPath = "/search"

// Router is the public HTTP entry point. It forwards admin traffic verbatim,
// sends search requests to the frontend's search page and serves content
// paths known to the route cache. Everything else gets the not-found page.
type Router struct {
	frontend     *url.URL
	adminPrefix  string
	searchPrefix string
	notFoundPath string
	routes       driving.RouteResolver

	// admin treats upstream 5xx as a failure; pages relay any status.
	admin *upstream.Client
	pages *upstream.Client
}

// NewRouter creates a router for cfg backed by the given route resolver.
func NewRouter(cfg domain.RouterConfig, routes driving.RouteResolver) (*Router, error) {
	if routes == nil {
		return nil, fmt.Errorf("%w: route resolver is required", domain.ErrInvalidInput)
	}
	frontend, err := url.Parse(cfg.FrontendURL)
	if err != nil || frontend.Scheme == "" || frontend.Host == "" {
		return nil, fmt.Errorf("%w: frontend url %q", domain.ErrInvalidInput, cfg.FrontendURL)
	}

	client := upstream.NewClient(upstream.Config{
		Timeout: cfg.UpstreamTimeout,
		Accept:  upstream.AcceptAny,
	})

	return &Router{
		frontend:     frontend,
		adminPrefix:  cfg.AdminPrefix,
		searchPrefix: cfg.SearchPrefix,
		notFoundPath: cfg.NotFoundPath,
		routes:       routes,
		admin:        client.WithAccept(upstream.AcceptBelowServerError),
		pages:        client,
	}, nil
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(headerRequestID, id)

	rec := &statusRecorder{ResponseWriter: w}
	rt.route(rec, r, id)

	logger.Debug("%s %s %s -> %d (%s)", id, r.Method, r.URL.RequestURI(), rec.status,
		time.Since(start).Round(time.Millisecond))
}

func (rt *Router) route(w http.ResponseWriter, r *http.Request, id string) {
	path := r.URL.Path

	if strings.HasPrefix(path, rt.adminPrefix) {
		rt.proxyAdmin(w, r, id)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case path == "" || path == "/":
		rt.proxyPage(w, r, id, rt.target("/", "", ""))
	case strings.HasPrefix(path, rt.searchPrefix):
		rt.proxyPage(w, r, id, rt.target(frontendSearchPath, "", r.URL.RawQuery))
	default:
		if _, ok := rt.routes.Lookup(path); !ok {
			rt.proxyNotFound(w, r, id)
			return
		}
		rt.proxyPage(w, r, id, rt.target(path, r.URL.RawPath, r.URL.RawQuery))
	}
}

// proxyAdmin forwards the request as received. Statuses in [200,500) are
// relayed; transport failures and 5xx become 502.
func (rt *Router) proxyAdmin(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	header := rt.outbound(r, id)
	if len(body) > 0 && isForm(header.Get("Content-Type")) {
		encoded, err := reencodeForm(body)
		if err != nil {
			logger.Debug("%s forwarding undecodable form body as-is: %v", id, err)
		} else {
			body = encoded
			header.Set("Content-Type", formMediaType)
		}
	}

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}

	target := rt.target(r.URL.Path, r.URL.RawPath, r.URL.RawQuery)
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, reqBody)
	if err != nil {
		logger.Error("%s building admin request: %v", id, err)
		badGateway(w)
		return
	}
	req.Header = header

	resp, err := rt.admin.Do(req)
	if err != nil {
		logger.Warn("%s admin proxy failed: %v", id, err)
		badGateway(w)
		return
	}
	relay(w, r.Method, resp.Status, resp.Header, resp.Body)
}

// proxyPage fetches target from the frontend with the client's method
// (GET or HEAD) and relays whatever status it answers with.
func (rt *Router) proxyPage(w http.ResponseWriter, r *http.Request, id, target string) {
	rt.fetchAndRelay(w, r, id, target, rt.outbound(r, id), 0)
}

// proxyNotFound serves the frontend's not-found page with status 404.
func (rt *Router) proxyNotFound(w http.ResponseWriter, r *http.Request, id string) {
	header := rt.outbound(r, id)
	// A revalidation answer would leave the 404 without its page
	for _, name := range []string{"If-None-Match", "If-Modified-Since", "If-Match", "If-Unmodified-Since", "If-Range"} {
		header.Del(name)
	}
	rt.fetchAndRelay(w, r, id, rt.target(rt.notFoundPath, "", ""), header, http.StatusNotFound)
}

// fetchAndRelay relays the frontend's answer for target. A non-zero status
// overrides the upstream one.
func (rt *Router) fetchAndRelay(w http.ResponseWriter, r *http.Request, id, target string, header http.Header, status int) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, nil)
	if err != nil {
		logger.Error("%s building request for %s: %v", id, target, err)
		badGateway(w)
		return
	}
	req.Header = header

	resp, err := rt.pages.Do(req)
	if err != nil {
		logger.Warn("%s frontend request failed: %v", id, err)
		badGateway(w)
		return
	}

	if status == 0 {
		status = resp.Status
	}
	relay(w, r.Method, status, resp.Header, resp.Body)
}

// outbound builds upstream request headers for r.
func (rt *Router) outbound(r *http.Request, id string) http.Header {
	h := outboundHeader(r)
	h.Set(headerRequestID, id)
	return h
}

// target resolves a request path against the frontend base URL.
func (rt *Router) target(path, rawPath, rawQuery string) string {
	u := *rt.frontend
	base := strings.TrimSuffix(rt.frontend.Path, "/")
	u.Path = base + path
	if rawPath != "" {
		u.RawPath = strings.TrimSuffix(rt.frontend.EscapedPath(), "/") + rawPath
	} else {
		u.RawPath = ""
	}
	u.RawQuery = rawQuery
	u.Fragment = ""
	return u.String()
}

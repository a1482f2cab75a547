package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"book-sanctuary/internal/domain"
)

// ProxyHandler relays PDFs from allow-listed storage hosts so browsers can
// read them without CORS restrictions.
type ProxyHandler struct {
	client  *http.Client
	allowed map[string]struct{}
	logger  domain.Logger
}

const maxProxyRedirects = 10

// NewProxyHandler creates a proxy restricted to allowedHosts. Hosts are
// matched exactly, case-insensitively. Redirects are followed only while
// every hop stays on the allow-list.
func NewProxyHandler(client *http.Client, allowedHosts []string, logger domain.Logger) *ProxyHandler {
	if client == nil {
		client = http.DefaultClient
	}
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			allowed[host] = struct{}{}
		}
	}

	h := &ProxyHandler{allowed: allowed, logger: logger}
	guarded := *client
	guarded.CheckRedirect = h.checkRedirect
	h.client = &guarded
	return h
}

func (h *ProxyHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxProxyRedirects {
		return fmt.Errorf("stopped after %d redirects", maxProxyRedirects)
	}
	_, err := h.validate(req.URL.String())
	return err
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		h.preflight(w)
	case http.MethodGet:
		h.proxy(w, r)
	default:
		w.Header().Set("Allow", "GET, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ProxyHandler) preflight(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

func (h *ProxyHandler) proxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "PDF URL is required")
		return
	}

	target, err := h.validate(rawURL)
	if err != nil {
		h.logger.Warn("Rejected proxy target", "url", rawURL, "error", err.Error())
		writeError(w, http.StatusBadRequest, "Invalid PDF URL")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid PDF URL")
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := h.client.Do(req)
	if errors.Is(err, domain.ErrDisallowedHost) {
		h.logger.Warn("Rejected proxy redirect", "url", rawURL, "error", err.Error())
		writeError(w, http.StatusBadRequest, "Invalid PDF URL")
		return
	}
	if err != nil {
		h.logger.Error("PDF proxy fetch failed", err, "host", target.Host)
		writeError(w, http.StatusInternalServerError, "Failed to fetch PDF")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Warn("PDF proxy upstream error", "host", target.Host, "status", resp.StatusCode)
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to fetch PDF: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Debug("PDF proxy stream interrupted", "host", target.Host, "error", err.Error())
	}
}

// validate accepts only https URLs whose host is on the allow-list.
func (h *ProxyHandler) validate(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", domain.ErrDisallowedHost, u.Scheme)
	}
	if u.User != nil {
		return nil, fmt.Errorf("%w: credentials in URL", domain.ErrDisallowedHost)
	}
	if _, ok := h.allowed[strings.ToLower(u.Hostname())]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDisallowedHost, u.Hostname())
	}
	return u, nil
}

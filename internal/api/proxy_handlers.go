package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
)

// handleProxy fetches an arbitrary page server-side and relays it verbatim,
// injecting a base tag into HTML so relative links keep resolving against the
// origin. Fetch failures render a styled error page instead of the envelope,
// since the response is displayed directly in a browser frame.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		response.BadRequest(w, "url parameter required", s.logger)
		return
	}

	page, err := s.fetcher.Get(r.Context(), rawURL)
	if err != nil {
		s.writeProxyError(w, rawURL, err)
		return
	}

	body := page.Body
	if strings.Contains(page.ContentType, "text/html") {
		body = []byte(fetch.InjectBaseTag(string(body), page.FinalURL))
	}

	w.Header().Set("Content-Type", page.ContentType)
	w.WriteHeader(page.StatusCode)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to relay proxied page", "url", page.FinalURL, "error", err)
	}
}

const proxyErrorPage = `<html><body style="font-family: Arial; padding: 40px; background: #1a1a1a; color: #fff;">
<h2>%s</h2>
<p>%s</p>
</body></html>`

// writeProxyError renders a dark-themed error page for a failed fetch.
func (s *Server) writeProxyError(w http.ResponseWriter, rawURL string, err error) {
	target := fetch.NormalizeURL(rawURL)

	status := http.StatusInternalServerError
	heading := "Error Loading Page"
	detail := fmt.Sprintf("Could not load %s", target)

	switch {
	case fetch.IsConnRefused(err):
		status = http.StatusServiceUnavailable
		heading = "Connection Refused"
		detail = fmt.Sprintf("Could not connect to %s. Make sure the server is running.", target)
	case fetch.IsTimeout(err):
		status = http.StatusGatewayTimeout
		heading = "Request Timed Out"
		detail = fmt.Sprintf("The server at %s took too long to respond.", target)
	}

	s.logger.Warn("proxy fetch failed", "url", target, "status", status, "error", err)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, proxyErrorPage, heading, detail)
}

const suggestEndpoint = "https://suggestqueries.google.com/complete/search"

// emptySuggestions is the degraded reply when the upstream is unreachable.
// Clients always get valid suggestion JSON.
const emptySuggestions = `[[],[]]`

// suggestClient proxies search suggestions from the Google suggest endpoint.
type suggestClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

func newSuggestClient(timeout time.Duration, logger *slog.Logger) *suggestClient {
	return &suggestClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: suggestEndpoint,
		logger:   logger,
	}
}

// fetch returns the raw suggestion payload for a query, or nil on any failure.
func (c *suggestClient) fetch(r *http.Request, query string) []byte {
	target := c.endpoint + "?client=firefox&q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("suggestion fetch failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// handleSuggestions relays search suggestions, degrading to an empty
// suggestion list when the upstream is slow or down.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	w.Header().Set("Content-Type", "application/json")

	body := s.suggest.fetch(r, query)
	if body == nil {
		body = []byte(emptySuggestions)
	}

	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to write suggestions", "error", err)
	}
}

// Package fetch implements the outbound page fetcher shared by reader mode,
// page summarization, and the raw proxy.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// Browser-like headers so sites serve the same markup they give real browsers.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Upgrade-Insecure-Requests": "1",
}

// Page is a fetched document.
type Page struct {
	Body        []byte
	ContentType string
	StatusCode  int
	// FinalURL is the normalized request URL, used for base-tag injection.
	FinalURL string
}

// Client fetches pages with a bounded timeout, following redirects.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a page fetcher with the given total timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Get normalizes the URL and fetches it. Non-2xx responses are returned as
// pages, not errors; the caller decides how to surface them.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	target := NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create page request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("page fetch failed", "url", target, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/html"
	}

	return &Page{
		Body:        body,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		FinalURL:    target,
	}, nil
}

// NormalizeURL applies the scheme defaulting rules: bare hosts get http for
// localhost and https otherwise, and https against localhost is downgraded
// since local dev servers rarely speak TLS.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	isLocalhost := strings.Contains(lower, "localhost") || strings.Contains(raw, "127.0.0.1")

	if !strings.HasPrefix(lower, "http") {
		if isLocalhost {
			return "http://" + raw
		}
		return "https://" + raw
	}

	if strings.HasPrefix(lower, "https://localhost") || strings.HasPrefix(lower, "https://127.0.0.1") {
		return "http://" + raw[len("https://"):]
	}

	return raw
}

// IsConnRefused reports whether an error means the remote host refused the
// connection.
func IsConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// IsTimeout reports whether an error is a deadline or timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// InjectBaseTag inserts a <base href> right after <head> so relative links in
// proxied pages resolve against the origin. Pages without a head get one
// synthesized after <html>.
func InjectBaseTag(body, baseURL string) string {
	tag := `<base href="` + baseURL + `">`

	if idx := strings.Index(body, "<head>"); idx >= 0 {
		return body[:idx+len("<head>")] + tag + body[idx+len("<head>"):]
	}
	if idx := strings.Index(body, "<html>"); idx >= 0 {
		return body[:idx+len("<html>")] + "<head>" + tag + "</head>" + body[idx+len("<html>"):]
	}

	return body
}

// Package articles fetches financial articles and extracts readable content
// for script generation.
package articles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Article is the extracted content of one fetched page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

// Scraper fetches a page and extracts its readable article content.
type Scraper interface {
	Fetch(ctx context.Context, rawURL string) (*Article, error)
}

type scraper struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

// New creates a Scraper over a shared HTTP client.
func New(cfg *Config, logger *slog.Logger) Scraper {
	return &scraper{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    logger.With("system", "articles"),
	}
}

func (s *scraper) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	article, err := Extract(string(body), parsed)
	if err != nil {
		return nil, err
	}
	article.URL = parsed.String()

	s.logger.Debug("article fetched",
		"url", article.URL,
		"title", article.Title,
		"chars", len(article.Text))

	return article, nil
}

func normalize(text string) string {
	return strings.TrimSpace(text)
}

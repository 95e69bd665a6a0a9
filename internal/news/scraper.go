// Package news derives a per-region infrastructure category from headlines
// scraped off Indonesian news tag pages.
package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

// NoNews is the single headline returned when nothing could be scraped.
const NoNews = "No relevant news found"

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0"
)

// Scraper collects h2 headlines from a list of pages.
type Scraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewScraper() *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// WithClient replaces the HTTP client, keeping the other settings.
func (s *Scraper) WithClient(c *http.Client) *Scraper {
	cp := *s
	cp.client = c
	return &cp
}

// Headlines returns the trimmed, lower-cased text of every h2 on every
// site. Failing sites are logged and skipped. The result is never empty.
func (s *Scraper) Headlines(ctx context.Context, sites []string) []string {
	var out []string
	for _, site := range sites {
		titles, err := s.page(ctx, site)
		if err != nil {
			log.Warn().Err(err).Str("site", site).Msg("scrape failed")
			continue
		}
		out = append(out, titles...)
	}
	if len(out) == 0 {
		return []string{NoNews}
	}
	return out
}

func (s *Scraper) page(ctx context.Context, site string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var titles []string
	doc.Find("h2").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, strings.ToLower(strings.TrimSpace(sel.Text())))
	})
	return titles, nil
}

package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Scraper extracts headline text from a webpage with a configurable CSS
// selector. It fetches a single page; no crawling or pagination.
type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Scraper{client: &http.Client{Timeout: timeout}}
}

func (s *Scraper) Headlines(ctx context.Context, url, selector string) ([]string, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("scrape url is empty")
	}
	if strings.TrimSpace(selector) == "" {
		selector = "h2.entry-title"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	var headlines []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			headlines = append(headlines, text)
		}
	})
	return headlines, nil
}

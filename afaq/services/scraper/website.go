package scraper

import (
	"context"
	"sync"
	"time"

	"afaq/afaq/sources/storage"
	"afaq/afaq/utils/logging"

	"go.uber.org/zap"
)

// ObjectCache persists scrape results across restarts. *storage.MinIOClient satisfies it.
type ObjectCache interface {
	GetScrape(ctx context.Context, url string) (*storage.ScrapeObject, error)
	UploadScrape(ctx context.Context, url, text, metadata string) (string, error)
}

// PageFetcher is implemented by *Scraper.
type PageFetcher interface {
	ScrapePage(ctx context.Context, targetURL string) (string, error)
}

const unavailablePrefix = "Website content not available. Error: "

// WebsiteContext serves the scraped text of a single site, refreshing it once the TTL lapses.
// Content never fails; a failed scrape yields an explanatory placeholder that is not cached.
type WebsiteContext struct {
	fetcher PageFetcher
	url     string
	ttl     time.Duration
	cache   ObjectCache
	now     func() time.Time

	mu        sync.Mutex
	text      string
	fetchedAt time.Time
}

type WebsiteOption func(*WebsiteContext)

func WithObjectCache(c ObjectCache) WebsiteOption {
	return func(w *WebsiteContext) { w.cache = c }
}

func WithNow(now func() time.Time) WebsiteOption {
	return func(w *WebsiteContext) { w.now = now }
}

func NewWebsiteContext(fetcher PageFetcher, url string, ttl time.Duration, opts ...WebsiteOption) *WebsiteContext {
	w := &WebsiteContext{fetcher: fetcher, url: url, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WebsiteContext) URL() string { return w.url }

func (w *WebsiteContext) fresh(at time.Time) bool {
	return !at.IsZero() && (w.ttl <= 0 || w.now().Sub(at) < w.ttl)
}

func (w *WebsiteContext) Content(ctx context.Context) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.text != "" && w.fresh(w.fetchedAt) {
		return w.text
	}

	if w.cache != nil {
		obj, err := w.cache.GetScrape(ctx, w.url)
		if err == nil && obj.Text != "" && w.fresh(obj.Timestamp) {
			w.text, w.fetchedAt = obj.Text, obj.Timestamp
			return w.text
		}
	}

	text, err := w.fetcher.ScrapePage(ctx, w.url)
	if err != nil {
		logging.ErrorLogger.Error("website scrape failed", zap.String("url", w.url), zap.Error(err))
		if w.text != "" {
			return w.text
		}
		return unavailablePrefix + err.Error()
	}

	w.text, w.fetchedAt = text, w.now()
	if w.cache != nil {
		if _, err := w.cache.UploadScrape(ctx, w.url, text, "website_context"); err != nil {
			logging.ErrorLogger.Warn("storing scrape failed", zap.String("url", w.url), zap.Error(err))
		}
	}
	return w.text
}

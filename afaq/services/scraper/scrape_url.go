package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"afaq/afaq/utils/logging"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Chatbot/1.0)"
	defaultTitle     = "Afaq Tours Dubai"
)

// Scraper fetches a page and reduces it to the plain text blocks fed to the assistant.
type Scraper struct {
	client    *http.Client
	userAgent string
}

func NewScraper() *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: defaultUserAgent,
	}
}

// ScrapePage downloads targetURL and extracts its text content.
func (s *Scraper) ScrapePage(ctx context.Context, targetURL string) (string, error) {
	defer logging.LogDuration(ctx, "scrape_page")()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(targetURL)
	if err != nil {
		return "", err
	}
	return ExtractContent(doc, base), nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractContent turns a parsed page into newline separated blocks: title,
// meta description, headings/paragraphs/list items longer than three words,
// and absolute links.
func ExtractContent(doc *goquery.Document, base *url.URL) string {
	doc.Find("script, style, noscript, footer, form, nav, header").Remove()

	var blocks []string

	title := cleanText(doc.Find("title").First().Text())
	if title == "" {
		title = defaultTitle
	}
	blocks = append(blocks, "Website Title: "+title)

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		blocks = append(blocks, "Meta Description: "+desc)
	}

	doc.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if len(strings.Fields(text)) > 3 {
			blocks = append(blocks, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if text == "" || err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if strings.Contains(abs, "http") {
			blocks = append(blocks, text+": "+abs)
		}
	})

	return strings.Join(blocks, "\n")
}

// Package link finds URLs in entry text and resolves page titles for them.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent is sent with every title request. Some sites refuse clients that
// do not look like a browser.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds a single title fetch.
const DefaultTimeout = 10 * time.Second

const maxBody = 2 << 20

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ErrNoTitle is returned when a page has no usable <title>.
var ErrNoTitle = errors.New("link: page has no title")

// ExtractURL returns the first http(s) URL in text, or "".
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// Fetcher resolves the title of a page.
type Fetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// Cache remembers resolved titles between runs.
type Cache interface {
	Get(url string) (string, bool)
	Put(url, title string) error
}

// Resolver fetches page titles over HTTP, consulting an optional Cache first.
type Resolver struct {
	client *http.Client
	cache  Cache
}

// NewResolver returns a Resolver whose requests give up after timeout. cache
// may be nil.
func NewResolver(timeout time.Duration, cache Cache) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		client: &http.Client{Timeout: timeout},
		cache:  cache,
	}
}

// WithClient swaps the HTTP client, mainly for tests.
func (r *Resolver) WithClient(c *http.Client) *Resolver {
	r.client = c
	return r
}

// FetchTitle returns the trimmed text of the page's first <title> element.
func (r *Resolver) FetchTitle(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	if r.cache != nil {
		if title, ok := r.cache.Get(url); ok {
			return title, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("link: build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("link: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("link: %s returned status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("link: parse %s: %w", url, err)
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return "", ErrNoTitle
	}

	if r.cache != nil {
		_ = r.cache.Put(url, title)
	}
	return title, nil
}

// Title resolves url with f and falls back to the URL itself on any failure.
func Title(ctx context.Context, f Fetcher, url string) string {
	title, err := f.FetchTitle(ctx, url)
	if err != nil || title == "" {
		return url
	}
	return title
}

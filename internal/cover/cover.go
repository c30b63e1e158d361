// Package cover finds a representative image for a destination.
package cover

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
)

// DefaultBaseURL is the page prefix a place name is appended to.
const DefaultBaseURL = "https://en.wikipedia.org/wiki/"

// ErrNotFound is returned when the page has no usable image.
var ErrNotFound = errors.New("no cover image found")

// Resolver looks up the og:image of a destination's page.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewResolver creates a Resolver. An empty baseURL uses DefaultBaseURL.
func NewResolver(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Resolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache.New(24*time.Hour, time.Hour),
	}
}

// PrimaryPlace returns the part of a destination before the first comma,
// e.g. "Kyoto" for "Kyoto, Japan".
func PrimaryPlace(destination string) string {
	place, _, _ := strings.Cut(destination, ",")
	return strings.TrimSpace(place)
}

// PageURL is the page consulted for a destination.
func (r *Resolver) PageURL(destination string) string {
	slug := strings.ReplaceAll(PrimaryPlace(destination), " ", "_")
	return r.baseURL + url.PathEscape(slug)
}

// Lookup returns the image URL for destination. Successful lookups are cached.
func (r *Resolver) Lookup(ctx context.Context, destination string) (string, error) {
	place := PrimaryPlace(destination)
	if place == "" {
		return "", ErrNotFound
	}
	key := strings.ToLower(place)
	if v, ok := r.cache.Get(key); ok {
		return v.(string), nil
	}

	img, err := r.fetch(ctx, r.PageURL(destination))
	if err != nil {
		return "", err
	}
	r.cache.SetDefault(key, img)
	return img, nil
}

func (r *Resolver) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "triply/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	if !ok || strings.TrimSpace(img) == "" {
		return "", ErrNotFound
	}
	return strings.TrimSpace(img), nil
}

package kb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchUserAgent = "Mozilla/5.0 (compatible; cdpchat/1.0)"
	maxRedirects   = 5
	chunkRunes     = 1200
)

// DocURLs maps each platform key to its vendor documentation page.
var DocURLs = map[string]string{
	"segment":   "https://segment.com/docs/",
	"mparticle": "https://docs.mparticle.com/",
	"lytics":    "https://docs.lytics.com/",
	"zeotap":    "https://docs.zeotap.com/home/en-us/",
}

// Fetcher pulls vendor documentation pages and reduces them to indexable
// text chunks.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		},
	}
}

// FetchPlatform downloads one platform's documentation page and splits it
// into chunks.
func (f *Fetcher) FetchPlatform(ctx context.Context, platform string) ([]Document, error) {
	url, ok := DocURLs[strings.ToLower(platform)]
	if !ok {
		return nil, fmt.Errorf("no documentation URL for platform %q", platform)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = platform + " documentation"
	}

	body := doc.Find("main")
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	text := strings.Join(strings.Fields(body.Text()), " ")
	if text == "" {
		return nil, fmt.Errorf("no readable text at %s", url)
	}

	chunks := chunkText(text, chunkRunes)
	docs := make([]Document, len(chunks))
	for i, c := range chunks {
		docs[i] = Document{
			Platform: strings.ToLower(platform),
			Title:    title,
			URL:      url,
			Text:     c,
		}
	}
	return docs, nil
}

// RefreshAll fetches every platform's documentation, replacing index
// contents for those that succeed. Failures leave the previous contents in
// place. Returns per-platform success.
func (f *Fetcher) RefreshAll(ctx context.Context, index *DocIndex) map[string]bool {
	results := make(map[string]bool, len(DocURLs))
	for platform := range DocURLs {
		docs, err := f.FetchPlatform(ctx, platform)
		if err != nil {
			slog.Warn("documentation fetch failed", "platform", platform, "error", err)
			results[platform] = false
			continue
		}
		index.Replace(platform, docs)
		SetDocChunks(platform, len(docs))
		results[platform] = true
		slog.Info("documentation indexed", "platform", platform, "chunks", len(docs))
	}
	return results
}

// chunkText splits text into roughly maxRunes-sized pieces at word
// boundaries.
func chunkText(text string, maxRunes int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var b strings.Builder
	size := 0
	for _, w := range words {
		wlen := len([]rune(w)) + 1
		if size > 0 && size+wlen > maxRunes {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
		if size > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		size += wlen
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

package kb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchRanksByTokenOverlap(t *testing.T) {
	idx := NewDocIndex()
	idx.Replace("segment", []Document{
		{Title: "Destinations", URL: "u1", Text: "Destinations receive events from sources."},
		{Title: "Warehouses", URL: "u2", Text: "Warehouses store raw events. Connect a warehouse to sync events and schema tables."},
		{Title: "Privacy", URL: "u3", Text: "Privacy portal controls consent."},
	})

	got := idx.Search("segment", "warehouse events schema", 2)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Title != "Warehouses" {
		t.Errorf("top result = %q, want Warehouses", got[0].Title)
	}
	if got[1].Title != "Destinations" {
		t.Errorf("second result = %q, want Destinations", got[1].Title)
	}
}

func TestSearchScopesToPlatform(t *testing.T) {
	idx := NewDocIndex()
	idx.Replace("segment", []Document{{Title: "Segment doc", Text: "audience activation setup"}})
	idx.Replace("lytics", []Document{{Title: "Lytics doc", Text: "audience activation setup"}})

	got := idx.Search("lytics", "audience activation", 5)
	if len(got) != 1 || got[0].Title != "Lytics doc" {
		t.Fatalf("got %+v, want only the Lytics doc", got)
	}
	if got := idx.Search("zeotap", "audience activation", 5); len(got) != 0 {
		t.Errorf("unknown platform returned %d results", len(got))
	}
}

func TestSearchIgnoresNoise(t *testing.T) {
	idx := NewDocIndex()
	idx.Replace("segment", []Document{{Title: "doc", Text: "the and for how with you"}})

	// Stop words and short words carry no signal.
	if got := idx.Search("segment", "how do you and the", 5); len(got) != 0 {
		t.Errorf("stop-word query returned %d results", len(got))
	}
	if got := idx.Search("segment", "", 5); got != nil {
		t.Errorf("empty query returned %+v", got)
	}
}

func TestReplaceSwapsContents(t *testing.T) {
	idx := NewDocIndex()
	idx.Replace("segment", []Document{{Title: "old", Text: "tracking plan basics"}})
	idx.Replace("segment", []Document{{Title: "new", Text: "journeys orchestration basics"}})

	if got := idx.Search("segment", "tracking plan", 5); len(got) != 0 {
		t.Errorf("stale document still returned: %+v", got)
	}
	got := idx.Search("segment", "journeys orchestration", 5)
	if len(got) != 1 || got[0].Title != "new" {
		t.Fatalf("got %+v", got)
	}
	if idx.Size() != 1 {
		t.Errorf("size = %d, want 1", idx.Size())
	}
}

func TestExcerptCutsAtWordBoundary(t *testing.T) {
	d := Document{Text: "alpha bravo charlie delta echo"}

	if got := d.Excerpt(100); got != d.Text {
		t.Errorf("short text changed: %q", got)
	}

	got := d.Excerpt(14)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt %q has no ellipsis", got)
	}
	if got != "alpha bravo..." {
		t.Errorf("excerpt = %q", got)
	}
}

func TestChunkTextSplitsAtWordBoundaries(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	chunks := chunkText(text, 50)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 50 {
			t.Errorf("chunk %d is %d runes", i, len([]rune(c)))
		}
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
			t.Errorf("chunk %d has ragged edges: %q", i, c)
		}
	}
	if joined := strings.Join(chunks, " "); joined != strings.TrimSpace(text) {
		t.Errorf("chunks lose text on rejoin")
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if got := chunkText("   ", 100); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestFetchPlatformStripsChrome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "cdpchat") {
			t.Errorf("user agent = %q", ua)
		}
		w.Write([]byte(`<html><head><title>Segment Docs</title>
			<script>tracking();</script><style>.x{}</style></head>
			<body><nav>menu items</nav>
			<main><h1>Getting started</h1><p>Connect sources and destinations.</p></main>
			<footer>copyright</footer></body></html>`))
	}))
	defer srv.Close()

	old := DocURLs["segment"]
	DocURLs["segment"] = srv.URL
	defer func() { DocURLs["segment"] = old }()

	f := NewFetcher(time.Second)
	docs, err := f.FetchPlatform(context.Background(), "segment")
	if err != nil {
		t.Fatalf("FetchPlatform: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d chunks, want 1", len(docs))
	}
	if docs[0].Title != "Segment Docs" {
		t.Errorf("title = %q", docs[0].Title)
	}
	text := docs[0].Text
	if !strings.Contains(text, "Connect sources and destinations.") {
		t.Errorf("text = %q", text)
	}
	for _, chrome := range []string{"tracking()", "menu items", "copyright"} {
		if strings.Contains(text, chrome) {
			t.Errorf("text still contains %q", chrome)
		}
	}
}

func TestFetchPlatformRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	old := DocURLs["segment"]
	DocURLs["segment"] = srv.URL
	defer func() { DocURLs["segment"] = old }()

	f := NewFetcher(time.Second)
	if _, err := f.FetchPlatform(context.Background(), "segment"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchPlatformUnknownPlatform(t *testing.T) {
	f := NewFetcher(time.Second)
	if _, err := f.FetchPlatform(context.Background(), "hubspot"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

package kb

import (
	"math"
	"testing"
)

func TestSimilarityRatios(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "how do i set up a source", "how do i set up a source", 1.0},
		{"shifted by one", "abcd", "bcde", 0.75},
		{"both empty", "", "", 1.0},
		{"one empty", "segment", "", 0.0},
		{"case and padding ignored", "  Set Up Segment ", "set up segment", 1.0},
		{"nothing shared", "abc", "xyz", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	a, b := "configure a new data source", "source configuration steps"
	if x, y := similarity(a, b), similarity(b, a); math.Abs(x-y) > 1e-9 {
		t.Fatalf("similarity not symmetric: %v vs %v", x, y)
	}
}

func TestSimilarityOrdersCandidates(t *testing.T) {
	query := "mparticle integration guide"
	near := similarity(query, "mparticle.*integration")
	far := similarity(query, "what.*segment")
	if near <= far {
		t.Fatalf("expected close pattern to outscore distant one: %v <= %v", near, far)
	}
	if near < answerThreshold {
		t.Fatalf("close pattern scored %v, below the answer threshold %v", near, answerThreshold)
	}
}

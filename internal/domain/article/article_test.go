package article

import (
	"testing"
	"time"
)

func TestNew_RequiresSourceID(t *testing.T) {
	if _, err := New("", 0.9, 0.8); err == nil {
		t.Fatal("expected error for empty source ID")
	}
}

func TestAccessors_ClampOnRead(t *testing.T) {
	a, err := New("src-1", -5, 1.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := a.Similarity(); got != 0 {
		t.Errorf("expected similarity clamped to 0, got %v", got)
	}
	if got := a.Credibility(); got != 1 {
		t.Errorf("expected credibility clamped to 1, got %v", got)
	}
}

func TestWith_ReturnsCopies(t *testing.T) {
	a, _ := New("src-1", 0.7, 0.8)

	b := a.WithSourceName("Kaynak").
		WithCountryCode("TR").
		WithURL("https://example.com/haber")

	if a.SourceName() != "" || a.CountryCode() != "" || a.URL() != "" {
		t.Error("original article must not be mutated")
	}
	if b.SourceName() != "Kaynak" {
		t.Errorf("expected source name set, got %q", b.SourceName())
	}
	if b.CountryCode() != "TR" {
		t.Errorf("expected country code set, got %q", b.CountryCode())
	}
	if b.URL() != "https://example.com/haber" {
		t.Errorf("expected url set, got %q", b.URL())
	}
}

func TestPublishedAt_KnownFlag(t *testing.T) {
	a, _ := New("src-1", 0.7, 0.8)

	if _, ok := a.PublishedAt(); ok {
		t.Error("expected no publication time on a fresh article")
	}

	when := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	b := a.WithPublishedAt(when)
	got, ok := b.PublishedAt()
	if !ok {
		t.Fatal("expected publication time to be known")
	}
	if !got.Equal(when) {
		t.Errorf("expected %v, got %v", when, got)
	}
}

func TestNormalized_StoresClampedValues(t *testing.T) {
	a, _ := New("src-1", 2.0, -0.3)
	n := a.Normalized()

	if n.similarity != 1 {
		t.Errorf("expected stored similarity 1, got %v", n.similarity)
	}
	if n.credibility != 0 {
		t.Errorf("expected stored credibility 0, got %v", n.credibility)
	}
}

package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teyit-cloud/teyit/internal/domain"
	domtrust "github.com/teyit-cloud/teyit/internal/domain/trust"
	"github.com/teyit-cloud/teyit/internal/domain/verdict"
	trustuc "github.com/teyit-cloud/teyit/internal/usecase/trust"
	verifyuc "github.com/teyit-cloud/teyit/internal/usecase/verify"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// --- Mocks ---

type mockSearcher struct {
	primary        []domain.Record
	primaryErr     error
	fallback       []domain.Record
	fallbackErr    error
	lastLimit      int
	fallbackCalled bool
}

func (m *mockSearcher) SearchPrimary(_ context.Context, _ string, limit int) ([]domain.Record, error) {
	m.lastLimit = limit
	return m.primary, m.primaryErr
}

func (m *mockSearcher) SearchFallback(_ context.Context, _ string, limit int) ([]domain.Record, error) {
	m.fallbackCalled = true
	m.lastLimit = limit
	return m.fallback, m.fallbackErr
}

type mockNormalizer struct {
	out string
	err error
}

func (m *mockNormalizer) Normalize(_ string) (string, error) { return m.out, m.err }

func newWorkflow(t *testing.T, search Searcher) *Service {
	t.Helper()
	trustSvc, err := trustuc.New(trustuc.Config{})
	if err != nil {
		t.Fatalf("trust.New: %v", err)
	}
	verifier := verifyuc.New().WithClock(func() time.Time { return testNow })
	return New(verifier, trustSvc, search, &mockNormalizer{out: "temiz metin"})
}

func record(id string, extra map[string]string) domain.Record {
	rec := domain.Record{
		"kaynak_id":    id,
		"score":        "0.9",
		"guvenilirlik": "0.9",
		"baslik":       "Başlık " + id,
		"ozet":         "Özet " + id,
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

// --- Tests ---

func TestVerifyText_NormalizationErrorPropagates(t *testing.T) {
	trustSvc, _ := trustuc.New(trustuc.Config{})
	verifier := verifyuc.New()
	svc := New(verifier, trustSvc, &mockSearcher{}, &mockNormalizer{err: domain.ErrTextTooShort})

	_, err := svc.VerifyText(context.Background(), "kısa", 0)
	if !errors.Is(err, domain.ErrTextTooShort) {
		t.Errorf("expected ErrTextTooShort, got %v", err)
	}
}

func TestVerifyText_PrimaryPath(t *testing.T) {
	search := &mockSearcher{primary: []domain.Record{
		record("src-1", nil),
		record("src-2", nil),
		record("src-3", nil),
	}}
	svc := newWorkflow(t, search)

	out, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.FallbackUsed {
		t.Error("fallback must not be flagged on the primary path")
	}
	if search.fallbackCalled {
		t.Error("fallback must not be invoked when primary succeeds")
	}
	if out.CleanText != "temiz metin" {
		t.Errorf("expected normalized text in outcome, got %q", out.CleanText)
	}
	if len(out.Articles) != 3 {
		t.Fatalf("expected 3 merged articles, got %d", len(out.Articles))
	}

	a := out.Articles[0]
	if a.Headline != "Başlık src-1" || a.Summary != "Özet src-1" {
		t.Errorf("expected record metadata merged back, got %q / %q", a.Headline, a.Summary)
	}
	if a.Similarity != 0.9 || a.Credibility != 0.9 {
		t.Errorf("expected rounded scores 0.9/0.9, got %v/%v", a.Similarity, a.Credibility)
	}
	if a.PublishedAt != "" {
		t.Errorf("expected empty date for undated record, got %q", a.PublishedAt)
	}

	if out.Verdict.UniqueSources() != 3 {
		t.Errorf("expected 3 unique sources, got %d", out.Verdict.UniqueSources())
	}
}

func TestVerifyText_FallbackOnPrimaryError(t *testing.T) {
	search := &mockSearcher{
		primaryErr: errors.New("index missing"),
		fallback: []domain.Record{
			record("src-1", nil),
			record("src-2", nil),
			record("src-3", nil),
		},
	}
	svc := newWorkflow(t, search)

	out, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.FallbackUsed {
		t.Error("expected fallback flag to be set")
	}
	if !search.fallbackCalled {
		t.Error("expected fallback to be invoked")
	}
}

func TestVerifyText_FallbackErrorWrapped(t *testing.T) {
	search := &mockSearcher{
		primaryErr:  errors.New("index missing"),
		fallbackErr: errors.New("scan failed"),
	}
	svc := newWorkflow(t, search)

	_, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if err == nil {
		t.Fatal("expected error when both searches fail")
	}
	if !strings.Contains(err.Error(), "fallback search") {
		t.Errorf("expected wrapped fallback error, got %v", err)
	}
}

func TestVerifyText_VerificationErrorPropagates(t *testing.T) {
	search := &mockSearcher{primary: []domain.Record{
		record("src-1", nil),
	}}
	svc := newWorkflow(t, search)

	_, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for a lone source, got %v", err)
	}
}

func TestVerifyText_DateFormattedAsRFC3339(t *testing.T) {
	search := &mockSearcher{primary: []domain.Record{
		record("src-1", map[string]string{"tarih": "2025-06-14T10:00:00"}),
		record("src-2", map[string]string{"tarih": "2025-06-14T08:00:00"}),
		record("src-3", map[string]string{"tarih": "2025-06-13"}),
	}}
	svc := newWorkflow(t, search)

	out, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Articles[0].PublishedAt != "2025-06-14T10:00:00Z" {
		t.Errorf("expected zone-less timestamp serialized as UTC, got %q", out.Articles[0].PublishedAt)
	}
	if out.Articles[2].PublishedAt != "2025-06-13T00:00:00Z" {
		t.Errorf("expected date-only serialized as UTC midnight, got %q", out.Articles[2].PublishedAt)
	}
}

func TestVerifyText_LimitHandling(t *testing.T) {
	records := []domain.Record{
		record("src-1", nil), record("src-2", nil), record("src-3", nil),
	}
	search := &mockSearcher{primary: records}
	svc := newWorkflow(t, search).WithDefaultLimit(10)

	if _, err := svc.VerifyText(context.Background(), "metin", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.lastLimit != 10 {
		t.Errorf("expected default limit 10, got %d", search.lastLimit)
	}

	if _, err := svc.VerifyText(context.Background(), "metin", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.lastLimit != MaxSimilarArticles {
		t.Errorf("expected limit capped at %d, got %d", MaxSimilarArticles, search.lastLimit)
	}

	if _, err := svc.VerifyText(context.Background(), "metin", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.lastLimit != 5 {
		t.Errorf("expected explicit limit 5, got %d", search.lastLimit)
	}
}

func TestVerifyText_CredibilityFallsBackToTrustEngine(t *testing.T) {
	recs := []domain.Record{
		{"kaynak_id": "aa", "score": "0.9", "baslik": "b1"},
		{"kaynak_id": "blog-x", "score": "0.9", "baslik": "b2"},
		{"kaynak_id": "src-3", "score": "0.9", "baslik": "b3"},
	}
	search := &mockSearcher{primary: recs}
	svc := newWorkflow(t, search).WithSourceOverrides(
		map[string]domtrust.SourceType{"aa": domtrust.TypeFactChecker},
		nil,
	)

	out, err := svc.VerifyText(context.Background(), "uzun bir haber metni", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Articles[0].Credibility != 0.9 {
		t.Errorf("expected fact-checker baseline 0.9, got %v", out.Articles[0].Credibility)
	}
	if out.Articles[1].Credibility != 0.4 {
		t.Errorf("expected unknown-type baseline 0.4, got %v", out.Articles[1].Credibility)
	}
}

func TestResolveSourceID_FieldOrder(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
		want string
	}{
		{"kaynak_id first", domain.Record{"kaynak_id": "k1", "kaynak": "k2", "url": "u"}, "k1"},
		{"kaynak next", domain.Record{"kaynak": "k2", "id": "i", "url": "u"}, "k2"},
		{"generic source_id", domain.Record{"source_id": "s", "id": "i"}, "s"},
		{"storage id", domain.Record{"id": "i", "url": "u"}, "i"},
		{"url", domain.Record{"url": "u"}, "u"},
		{"headline fallback", domain.Record{"baslik": "başlık"}, "başlık"},
		{"summary fallback", domain.Record{"ozet": "özet"}, "özet"},
		{"synthetic", domain.Record{}, "anonymous-7"},
	}
	for _, tt := range tests {
		if got := resolveSourceID(tt.rec, 7); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestParseSimilarity(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"not-a-number", 0},
		{"0.73", 0.73},
		{"1.5", 1},
		{"-2", 0},
	}
	for _, tt := range tests {
		if got := parseSimilarity(tt.raw); got != tt.want {
			t.Errorf("parseSimilarity(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDate_Layouts(t *testing.T) {
	if _, ok := parseDate("2025-06-14T10:00:00+03:00"); !ok {
		t.Error("expected offset timestamp to parse")
	}
	if _, ok := parseDate("2025-06-14T10:00:00"); !ok {
		t.Error("expected naive timestamp to parse")
	}
	if _, ok := parseDate("2025-06-14"); !ok {
		t.Error("expected date-only to parse")
	}
	if _, ok := parseDate("14.06.2025"); ok {
		t.Error("expected unsupported layout to fail")
	}
	if _, ok := parseDate(""); ok {
		t.Error("expected empty date to fail")
	}
}

func TestCoerceCountry(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"tr", "TR"},
		{"TR", "TR"},
		{"turkey", "TU"},
	}
	for _, tt := range tests {
		if got := coerceCountry(tt.in); got != tt.want {
			t.Errorf("coerceCountry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusMessage_CoversAllStatuses(t *testing.T) {
	statuses := []verdict.Status{
		verdict.StatusVerified,
		verdict.StatusLikelyTrue,
		verdict.StatusUncertain,
		verdict.StatusDisputed,
		verdict.StatusUnverified,
	}
	seen := make(map[string]struct{})
	for _, s := range statuses {
		msg := StatusMessage(s)
		if msg == "" {
			t.Errorf("empty message for %q", s)
		}
		seen[msg] = struct{}{}
	}
	if len(seen) != len(statuses) {
		t.Error("expected a distinct message per status")
	}
}

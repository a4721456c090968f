// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// --- mock source ---

type mockSource struct {
	name    string
	records []types.RawAuthorRecord
	err     error
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) FetchCandidates(_ context.Context, _ Query, _ int) ([]types.RawAuthorRecord, error) {
	return m.records, m.err
}

// mockWorksSource also serves a recent-works sample.
type mockWorksSource struct {
	mockSource
	pubs     []types.Publication
	worksErr error
	fetched  int
}

func (m *mockWorksSource) FetchRecentPublications(_ context.Context, _ string, _ int) ([]types.Publication, error) {
	m.fetched++
	return m.pubs, m.worksErr
}

// mockResolver is a canned affiliation resolver.
type mockResolver struct {
	match *types.InstitutionMatch
	err   error
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (*types.InstitutionMatch, error) {
	return m.match, m.err
}

func testEngine(sources ...Source) *Engine {
	return &Engine{Sources: sources}
}

// --- Disambiguate ---

func TestDisambiguateEmptyName(t *testing.T) {
	var buf bytes.Buffer
	_, err := testEngine(&mockSource{name: "mock"}).Disambiguate(context.Background(), Query{}, &buf)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty name error, got: %v", err)
	}
}

func TestDisambiguateNoSources(t *testing.T) {
	var buf bytes.Buffer
	_, err := testEngine().Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err == nil || !strings.Contains(err.Error(), "no bibliographic sources") {
		t.Errorf("expected no sources error, got: %v", err)
	}
}

func TestDisambiguateRanksAndSelectsBestMatch(t *testing.T) {
	src := &mockSource{
		name: "mock",
		records: []types.RawAuthorRecord{
			{SourceID: "A2", DisplayName: "Jane Smithers"},
			{SourceID: "A1", DisplayName: "Jane Smith", ORCID: "0000-0002-1825-0097", WorksCount: 30},
		},
	}

	var buf bytes.Buffer
	result, err := testEngine(src).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if result.TotalFound != 2 {
		t.Errorf("TotalFound = %d, want 2", result.TotalFound)
	}
	if result.BestMatch == nil || result.BestMatch.SourceID != "mock:A1" {
		t.Fatalf("BestMatch = %+v, want the exact-name record", result.BestMatch)
	}
	if result.BestMatch.ConfidenceScore <= result.Candidates[1].ConfidenceScore {
		t.Error("best match should outscore the partial match")
	}
	if len(result.BestMatch.MatchReasons) == 0 {
		t.Error("best match should carry match reasons")
	}
}

func TestDisambiguateContinuesAfterSourceFailure(t *testing.T) {
	failing := &mockSource{name: "failing", err: fmt.Errorf("network error")}
	working := &mockSource{
		name:    "working",
		records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Jane Smith"}},
	}

	var buf bytes.Buffer
	result, err := testEngine(failing, working).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate should not fail entirely: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Errorf("len(Candidates) = %d, want 1", len(result.Candidates))
	}
	if len(result.SourceErrors) != 1 || !strings.Contains(result.SourceErrors[0], "failing") {
		t.Errorf("SourceErrors = %v, want one entry naming the failed source", result.SourceErrors)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("output should contain a warning about the failed source")
	}
}

func TestDisambiguateAllSourcesFailed(t *testing.T) {
	a := &mockSource{name: "a", err: fmt.Errorf("timeout")}
	b := &mockSource{name: "b", err: fmt.Errorf("HTTP 500")}

	var buf bytes.Buffer
	result, err := testEngine(a, b).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("all-sources-failed must be a result, not an error: %v", err)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("len(Candidates) = %d, want 0", len(result.Candidates))
	}
	if result.BestMatch != nil {
		t.Error("BestMatch should be nil")
	}
	if len(result.SourceErrors) != 2 {
		t.Errorf("SourceErrors = %v, want both failures recorded", result.SourceErrors)
	}
}

func TestDisambiguateMergesSourcesWithoutDedup(t *testing.T) {
	a := &mockSource{
		name:    "openalex",
		records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Jane Smith", ORCID: "0000-0002-1825-0097"}},
	}
	b := &mockSource{
		name:    "semantic_scholar",
		records: []types.RawAuthorRecord{{SourceID: "99", DisplayName: "Jane Smith", ORCID: "0000-0002-1825-0097"}},
	}

	var buf bytes.Buffer
	result, err := testEngine(a, b).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("len(Candidates) = %d, same person from two sources stays separate", len(result.Candidates))
	}
	ids := []string{result.Candidates[0].SourceID, result.Candidates[1].SourceID}
	for _, id := range ids {
		if !strings.Contains(id, ":") {
			t.Errorf("SourceID %q should be namespaced by source", id)
		}
	}
}

func TestDisambiguateMaxCandidates(t *testing.T) {
	var records []types.RawAuthorRecord
	for i := 0; i < 12; i++ {
		records = append(records, types.RawAuthorRecord{
			SourceID:    fmt.Sprintf("A%d", i),
			DisplayName: fmt.Sprintf("Jane Smith %d", i),
		})
	}

	engine := testEngine(&mockSource{name: "mock", records: records})
	engine.Config.MaxCandidates = 3

	var buf bytes.Buffer
	result, err := engine.Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if len(result.Candidates) != 3 {
		t.Errorf("len(Candidates) = %d, want 3", len(result.Candidates))
	}
	if result.TotalFound != 12 {
		t.Errorf("TotalFound = %d, want pre-truncation count", result.TotalFound)
	}
}

func TestDisambiguateSkipsUnusableRecords(t *testing.T) {
	src := &mockSource{
		name: "mock",
		records: []types.RawAuthorRecord{
			{}, // no identity at all
			{SourceID: "A1", DisplayName: "Jane Smith"},
		},
	}

	var buf bytes.Buffer
	result, err := testEngine(src).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Errorf("len(Candidates) = %d, want the empty record skipped", len(result.Candidates))
	}
}

func TestDisambiguateUsesEmbeddedPublications(t *testing.T) {
	src := &mockWorksSource{
		mockSource: mockSource{
			name: "mock",
			records: []types.RawAuthorRecord{{
				SourceID:    "A1",
				DisplayName: "Jane Smith",
				WorksCount:  5,
				Publications: []types.Publication{
					pubWithAuthors("A1", "B"),
					pubWithAuthors("B", "A1"),
				},
			}},
		},
		pubs: []types.Publication{pubWithAuthors("A1")},
	}

	var buf bytes.Buffer
	result, err := testEngine(src).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if src.fetched != 0 {
		t.Errorf("works fetch called %d times, embedded publications should short-circuit it", src.fetched)
	}
	got := result.Candidates[0].AuthorshipPositions
	if got.First != 1 || got.Last != 1 {
		t.Errorf("positions = %+v, want 1 first / 1 last", got)
	}
}

func TestDisambiguateFetchesWorksSample(t *testing.T) {
	src := &mockWorksSource{
		mockSource: mockSource{
			name:    "mock",
			records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Jane Smith", WorksCount: 3}},
		},
		pubs: []types.Publication{
			pubWithAuthors("A1", "B"),
			pubWithAuthors("B", "C", "A1"),
		},
	}

	var buf bytes.Buffer
	result, err := testEngine(src).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if src.fetched != 1 {
		t.Errorf("works fetch called %d times, want 1", src.fetched)
	}
	got := result.Candidates[0].AuthorshipPositions
	if got.First != 1 || got.Last != 1 {
		t.Errorf("positions = %+v", got)
	}
	if result.Candidates[0].CareerStage != types.StageVeryEarlyCareer {
		t.Errorf("CareerStage = %v, want very early with 2 sampled papers", result.Candidates[0].CareerStage)
	}
}

func TestDisambiguateWorksFetchFailureKeepsCandidate(t *testing.T) {
	src := &mockWorksSource{
		mockSource: mockSource{
			name:    "mock",
			records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Jane Smith", WorksCount: 10}},
		},
		worksErr: fmt.Errorf("HTTP 503"),
	}

	var buf bytes.Buffer
	result, err := testEngine(src).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("len(Candidates) = %d, candidate must survive a works fetch failure", len(result.Candidates))
	}
	if result.Candidates[0].CareerStage != types.StageNoPublications {
		t.Errorf("CareerStage = %v, want no-publications without a sample", result.Candidates[0].CareerStage)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("output should warn about the works fetch failure")
	}
}

func TestDisambiguateConcurrentWorksFetchWarnings(t *testing.T) {
	// Two branches hit works-fetch failures at the same time; warnings
	// must come out of the collector, not the goroutines, so the shared
	// writer sees them one at a time.
	a := &mockWorksSource{
		mockSource: mockSource{
			name:    "alpha",
			records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Jane Smith", WorksCount: 10}},
		},
		worksErr: fmt.Errorf("HTTP 503"),
	}
	b := &mockWorksSource{
		mockSource: mockSource{
			name:    "beta",
			records: []types.RawAuthorRecord{{SourceID: "B1", DisplayName: "Jane Smith", WorksCount: 10}},
		},
		worksErr: fmt.Errorf("HTTP 429"),
	}

	var buf bytes.Buffer
	result, err := testEngine(a, b).Disambiguate(context.Background(), Query{Name: "Jane Smith"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("len(Candidates) = %d, want both candidates despite fetch failures", len(result.Candidates))
	}

	out := buf.String()
	if !strings.Contains(out, "alpha works fetch for A1 failed") {
		t.Errorf("output missing alpha warning: %q", out)
	}
	if !strings.Contains(out, "beta works fetch for B1 failed") {
		t.Errorf("output missing beta warning: %q", out)
	}
	// Each warning is one intact line.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "warning: ") {
			t.Errorf("interleaved warning output: %q", line)
		}
	}
}

func TestDisambiguateResolvesAffiliation(t *testing.T) {
	src := &mockSource{
		name: "mock",
		records: []types.RawAuthorRecord{{
			SourceID:     "A1",
			DisplayName:  "Fiona Watt",
			Affiliations: []string{"European Molecular Biology Organization"},
		}},
	}

	engine := testEngine(src)
	engine.Config.ResolveAffiliation = true
	engine.Affiliations = &mockResolver{match: &types.InstitutionMatch{
		CanonicalName: "European Molecular Biology Organization",
		MatchScore:    95,
		MatchTier:     types.TierAltExact,
	}}

	var buf bytes.Buffer
	result, err := engine.Disambiguate(context.Background(), Query{Name: "Fiona Watt", Affiliation: "EMBO"}, &buf)
	if err != nil {
		t.Fatalf("Disambiguate: %v", err)
	}
	if result.ResolvedAffiliation != "European Molecular Biology Organization" {
		t.Errorf("ResolvedAffiliation = %q", result.ResolvedAffiliation)
	}
	// Scoring must have used the canonical name: raw "EMBO" would not
	// substring-match the affiliation.
	best := result.BestMatch
	affMatched := false
	for _, r := range best.MatchReasons {
		if strings.HasPrefix(r, "Affiliation match: ") {
			affMatched = true
		}
	}
	if !affMatched {
		t.Errorf("MatchReasons = %v, want affiliation bonus via resolved name", best.MatchReasons)
	}
	// The original query is preserved in the result.
	if result.Query.Affiliation != "EMBO" {
		t.Errorf("Query.Affiliation = %q, want the original hint", result.Query.Affiliation)
	}
}

func TestDisambiguateAffiliationResolutionFailureFallsBack(t *testing.T) {
	src := &mockSource{
		name:    "mock",
		records: []types.RawAuthorRecord{{SourceID: "A1", DisplayName: "Fiona Watt"}},
	}

	engine := testEngine(src)
	engine.Config.ResolveAffiliation = true
	engine.Affiliations = &mockResolver{err: fmt.Errorf("HTTP 500")}

	var buf bytes.Buffer
	result, err := engine.Disambiguate(context.Background(), Query{Name: "Fiona Watt", Affiliation: "EMBO"}, &buf)
	if err != nil {
		t.Fatalf("resolution failure must not abort the query: %v", err)
	}
	if result.ResolvedAffiliation != "" {
		t.Errorf("ResolvedAffiliation = %q, want empty on failure", result.ResolvedAffiliation)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("output should warn about the resolution failure")
	}
}

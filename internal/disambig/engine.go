// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package disambig resolves an ambiguous researcher name to ranked
// canonical author candidates drawn from bibliographic sources.
//
// The engine fans a query out to every configured Source concurrently,
// normalizes each source's raw records into canonical candidates, scores
// them against the query, classifies career stage from the authorship
// position histogram, and merges everything into one ranked list. A slow
// or failing source only loses its own candidates; it never aborts the
// query.
package disambig

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// Source fetches raw author records from one bibliographic API. Each
// source (OpenAlex, Semantic Scholar) implements this interface per the
// Strategy pattern and owns its own wire format.
type Source interface {
	Name() string
	FetchCandidates(ctx context.Context, q Query, limit int) ([]types.RawAuthorRecord, error)
}

// WorksFetcher is an optional capability on a Source: fetching a recent
// publication sample for one author so authorship positions can be
// analyzed. Sources that embed publications in their search response do
// not need it.
type WorksFetcher interface {
	FetchRecentPublications(ctx context.Context, sourceID string, limit int) ([]types.Publication, error)
}

// AffiliationResolver expands an institution name or abbreviation to its
// canonical record. The engine uses it to pre-resolve the query
// affiliation before scoring.
type AffiliationResolver interface {
	Resolve(ctx context.Context, query string) (*types.InstitutionMatch, error)
}

// Query holds the disambiguation parameters.
type Query struct {
	// Name is the author name to resolve (required).
	Name string `json:"name" yaml:"name"`

	// Affiliation is an optional institution hint.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Field is an optional research-field hint.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// ORCID is an optional ORCID identifier for precise matching.
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// Result is the ranked outcome of one disambiguation query. An empty
// Candidates list is a valid result, not an error: automated callers
// branch on data presence instead of catching exceptions. Multiple
// high-confidence candidates are likewise surfaced as-is for the caller
// to decide.
type Result struct {
	Query Query `json:"query" yaml:"query"`

	// ResolvedAffiliation is the canonical institution name the query
	// affiliation expanded to, when pre-resolution was enabled and found
	// a match.
	ResolvedAffiliation string `json:"resolved_affiliation,omitempty" yaml:"resolved_affiliation,omitempty"`

	BestMatch  *types.AuthorCandidate  `json:"best_match,omitempty" yaml:"best_match,omitempty"`
	Candidates []types.AuthorCandidate `json:"all_candidates" yaml:"all_candidates"`

	// TotalFound is the candidate count before truncation to the
	// configured maximum.
	TotalFound int `json:"total_found" yaml:"total_found"`

	// SourceErrors lists sources that failed or timed out. When every
	// source failed, Candidates is empty and this explains why.
	SourceErrors []string `json:"source_errors,omitempty" yaml:"source_errors,omitempty"`
}

// Engine wires sources, configuration, and the optional affiliation
// resolver into the disambiguation facade. Construct once at startup
// with an explicit HTTP client inside each source; the engine itself
// holds no per-query state.
type Engine struct {
	Sources      []Source
	Affiliations AffiliationResolver
	Config       types.DisambiguationConfig
}

const (
	defaultMaxCandidates    = 5
	defaultWorksSampleLimit = 20
)

// Disambiguate fans the query out to all sources concurrently, runs each
// source's records through the normalize/analyze/score/classify pipeline
// in isolation, and merges the branches into one ranked, truncated list.
// Per-source failures are reported in Result.SourceErrors and on w; only
// an empty query or an engine with no sources is an error.
func (e *Engine) Disambiguate(ctx context.Context, q Query, w io.Writer) (Result, error) {
	if q.Name == "" {
		return Result{}, fmt.Errorf("query name is empty: provide an author name to resolve")
	}
	if len(e.Sources) == 0 {
		return Result{}, fmt.Errorf("no bibliographic sources configured")
	}

	maxCandidates := e.Config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	result := Result{Query: q}

	// Pre-resolve the query affiliation so abbreviations ("EMBO") can
	// substring-match full institution names during scoring. Resolution
	// failure falls back to the raw affiliation string.
	scoringQuery := q
	if e.Config.ResolveAffiliation && q.Affiliation != "" && e.Affiliations != nil {
		if match, err := e.Affiliations.Resolve(ctx, q.Affiliation); err != nil {
			fmt.Fprintf(w, "warning: affiliation resolution failed: %v\n", err)
		} else if match != nil {
			scoringQuery.Affiliation = match.CanonicalName
			result.ResolvedAffiliation = match.CanonicalName
		}
	}

	type sourceOutcome struct {
		candidates []types.AuthorCandidate
		warnings   []string
		err        error
		name       string
	}

	// Fetch more than requested so ranking has something to filter.
	fetchLimit := maxCandidates * 2

	ch := make(chan sourceOutcome, len(e.Sources))
	var wg sync.WaitGroup

	for i, src := range e.Sources {
		if i > 0 && e.Config.InterSourceDelay > 0 {
			time.Sleep(e.Config.InterSourceDelay)
		}
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			candidates, warnings, err := e.processSource(ctx, src, scoringQuery, fetchLimit)
			ch <- sourceOutcome{candidates: candidates, warnings: warnings, err: err, name: src.Name()}
		}(src)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Warnings are emitted only here in the collector: the branches must
	// not share the writer.
	var all []types.AuthorCandidate
	for outcome := range ch {
		for _, warning := range outcome.warnings {
			fmt.Fprintf(w, "warning: %s\n", warning)
		}
		if outcome.err != nil {
			msg := fmt.Sprintf("%s: %v", outcome.name, outcome.err)
			result.SourceErrors = append(result.SourceErrors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", outcome.name, outcome.err)
			continue
		}
		all = append(all, outcome.candidates...)
	}

	result.TotalFound = len(all)
	result.Candidates = Rank(all, e.Config.TieBreak, maxCandidates)
	if len(result.Candidates) > 0 {
		result.BestMatch = &result.Candidates[0]
	}
	return result, nil
}

// processSource runs one source's branch of the fan-out: fetch raw
// records, then normalize, analyze positions, score, and classify each.
// A record with no usable identity is skipped; the rest of the batch
// continues. Warnings are returned, not written: the branch runs in its
// own goroutine and must not touch the caller's writer.
func (e *Engine) processSource(ctx context.Context, src Source, q Query, fetchLimit int) ([]types.AuthorCandidate, []string, error) {
	raws, err := src.FetchCandidates(ctx, q, fetchLimit)
	if err != nil {
		return nil, nil, err
	}

	sampleLimit := e.Config.WorksSampleLimit
	if sampleLimit <= 0 {
		sampleLimit = defaultWorksSampleLimit
	}

	works, canFetchWorks := src.(WorksFetcher)

	var candidates []types.AuthorCandidate
	var warnings []string
	for _, raw := range raws {
		if raw.SourceID == "" && raw.DisplayName == "" {
			continue
		}

		cand := BuildCandidate(raw, src.Name(), e.Config.TopicLimit)

		pubs := raw.Publications
		if len(pubs) == 0 && canFetchWorks && raw.WorksCount > 0 {
			fetched, err := works.FetchRecentPublications(ctx, raw.SourceID, sampleLimit)
			if err != nil {
				// Position analysis is an enrichment; the candidate
				// stands without it.
				warnings = append(warnings, fmt.Sprintf("%s works fetch for %s failed: %v", src.Name(), raw.SourceID, err))
			} else {
				pubs = fetched
			}
		}

		identity := types.AuthorIdentity{SourceID: raw.SourceID, DisplayName: raw.DisplayName}
		cand.AuthorshipPositions = AnalyzePositions(identity, pubs, sampleLimit)
		cand.ConfidenceScore, cand.MatchReasons = ScoreCandidate(raw, q)
		cand.SeniorityScore, cand.CareerStage = Classify(cand.AuthorshipPositions, raw.HIndex)

		candidates = append(candidates, cand)
	}
	return candidates, warnings, nil
}

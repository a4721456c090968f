// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package institution resolves organization names and abbreviations to
// canonical institution records using a scored matching ladder.
package institution

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// Source supplies candidate institution records for a query string. The
// live OpenAlex adapter and the local SQLite catalog both implement it.
type Source interface {
	Lookup(ctx context.Context, query string, limit int) ([]types.RawInstitutionRecord, error)
}

// Match tier scores. Per-candidate, the highest satisfied tier wins;
// across candidates, the highest score wins.
const (
	exactScore      = 100
	altExactScore   = 95
	partialScore    = 80
	altPartialScore = 75
	prefixScore     = 70
	wordMatchBase   = 50
	wordMatchSpan   = 20
)

// Match scores every candidate record against the query and returns the
// single best match, or nil when no tier is satisfied by any candidate.
// Pure function; resolution against a live source goes through Resolver.
func Match(query string, candidates []types.RawInstitutionRecord) *types.InstitutionMatch {
	var best *types.InstitutionMatch
	for _, rec := range candidates {
		score, tier := scoreRecord(query, rec)
		if tier == types.TierNone {
			continue
		}
		if best == nil || score > best.MatchScore {
			best = &types.InstitutionMatch{
				CanonicalName:  rec.DisplayName,
				SourceID:       rec.SourceID,
				CountryCode:    rec.CountryCode,
				Type:           rec.Type,
				AlternateNames: rec.AlternateNames,
				HomepageURL:    rec.HomepageURL,
				MatchScore:     score,
				MatchTier:      tier,
			}
		}
	}
	return best
}

// scoreRecord walks the tier ladder top-down and returns the first
// satisfied tier with its score.
func scoreRecord(query string, rec types.RawInstitutionRecord) (int, types.MatchTier) {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(rec.DisplayName)
	if q == "" || name == "" {
		return 0, types.TierNone
	}

	alternates := make([]string, 0, len(rec.AlternateNames))
	for _, alt := range rec.AlternateNames {
		alternates = append(alternates, strings.ToLower(alt))
	}

	switch {
	case q == name:
		return exactScore, types.TierExact
	case containsExact(alternates, q):
		return altExactScore, types.TierAltExact
	case strings.Contains(name, q):
		return partialScore, types.TierPartial
	case containsSubstring(alternates, q):
		return altPartialScore, types.TierAltPartial
	case strings.HasPrefix(name, q):
		return prefixScore, types.TierPrefix
	}

	// Word overlap: the fraction of query words appearing as substrings
	// of the candidate's name words maps onto [50, 70].
	queryWords := strings.Fields(q)
	nameWords := strings.Fields(name)
	matched := 0
	for _, qw := range queryWords {
		for _, nw := range nameWords {
			if strings.Contains(nw, qw) {
				matched++
				break
			}
		}
	}
	if matched > 0 {
		f := float64(matched) / float64(len(queryWords))
		return wordMatchBase + int(math.Round(f*wordMatchSpan)), types.TierWordMatch
	}

	return 0, types.TierNone
}

func containsExact(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsSubstring(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// defaultLookupLimit caps how many candidate records are fetched per
// query before scoring.
const defaultLookupLimit = 5

// defaultInterQueryDelay spaces out batch resolution calls as a courtesy
// to the upstream API.
const defaultInterQueryDelay = 200 * time.Millisecond

// Resolver combines a candidate Source with the scoring ladder.
type Resolver struct {
	Source Source
	Config types.InstitutionConfig
}

// Resolve fetches candidates for the query and returns the single best
// match, or nil when nothing matched. A nil result with a nil error is
// the documented "not found" outcome.
func (r *Resolver) Resolve(ctx context.Context, query string) (*types.InstitutionMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("institution query is empty")
	}

	limit := r.Config.MaxCandidates
	if limit <= 0 {
		limit = defaultLookupLimit
	}

	candidates, err := r.Source.Lookup(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("institution lookup %q: %w", query, err)
	}
	return Match(query, candidates), nil
}

// ResolveMany resolves queries sequentially with a small inter-call
// delay. A failed query maps to nil and a warning on w; the batch
// continues.
func (r *Resolver) ResolveMany(ctx context.Context, queries []string, w io.Writer) (map[string]*types.InstitutionMatch, error) {
	delay := r.Config.InterQueryDelay
	if delay <= 0 {
		delay = defaultInterQueryDelay
	}

	results := make(map[string]*types.InstitutionMatch, len(queries))
	for i, query := range queries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(delay):
			}
		}

		match, err := r.Resolve(ctx, query)
		if err != nil {
			fmt.Fprintf(w, "warning: resolving %q failed: %v\n", query, err)
			results[query] = nil
			continue
		}
		results[query] = match
	}
	return results, nil
}

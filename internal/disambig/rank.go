// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"sort"
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// Rank sorts candidates by confidence score descending, breaking ties by
// the selected metric (seniority score by default, citation count when
// configured), then by works count descending, then by display name for
// determinism. The sorted list is truncated to maxCandidates when
// positive.
//
// Candidates from different sources are never merged: cross-source
// identity linkage is the caller's concern (ORCID equality is the usual
// join key).
func Rank(candidates []types.AuthorCandidate, tieBreak types.TieBreak, maxCandidates int) []types.AuthorCandidate {
	ranked := make([]types.AuthorCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ConfidenceScore != b.ConfidenceScore {
			return a.ConfidenceScore > b.ConfidenceScore
		}
		am, bm := tieMetric(a, tieBreak), tieMetric(b, tieBreak)
		if am != bm {
			return am > bm
		}
		if a.WorksCount != b.WorksCount {
			return a.WorksCount > b.WorksCount
		}
		return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
	})

	if maxCandidates > 0 && len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}
	return ranked
}

func tieMetric(c types.AuthorCandidate, tieBreak types.TieBreak) float64 {
	if tieBreak == types.TieBreakCitations {
		return float64(c.CitationCount)
	}
	return c.SeniorityScore
}

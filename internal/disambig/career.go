// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import "github.com/pdiddy/scholar-id/pkg/types"

// Seniority weights per authorship position. Last authorship dominates
// because it is the strongest behavioral signal of a principal
// investigator role in most scientific fields.
const (
	firstWeight  = 0.2
	middleWeight = 0.5
	lastWeight   = 1.0
)

// Career-stage thresholds.
const (
	veryEarlyTotal      = 5
	firstRatioDominant  = 0.6
	lastRatioLeadership = 0.4
	seniorHIndex        = 15
	establishedScore    = 0.6
	experiencedTotal    = 20
)

// Classify derives the seniority score and categorical career stage from
// an authorship position histogram, works count, and h-index. It is a
// total function: every input maps to exactly one stage.
//
// The decision tree is evaluated top to bottom, first match wins. The
// h-index disambiguates a senior PI from a mid-career lab head when last
// authorship dominates.
func Classify(positions types.AuthorshipPositions, hIndex *int) (float64, types.CareerStage) {
	total := positions.Total()
	if total == 0 {
		return 0.0, types.StageNoPublications
	}

	weighted := float64(positions.First)*firstWeight +
		float64(positions.Middle)*middleWeight +
		float64(positions.Last)*lastWeight
	seniority := weighted / float64(total)
	if seniority > 1.0 {
		seniority = 1.0
	}

	firstRatio := float64(positions.First) / float64(total)
	lastRatio := float64(positions.Last) / float64(total)

	switch {
	case total < veryEarlyTotal:
		return seniority, types.StageVeryEarlyCareer
	case firstRatio > firstRatioDominant:
		return seniority, types.StageEarlyCareer
	case lastRatio > lastRatioLeadership && hIndex != nil && *hIndex > seniorHIndex:
		return seniority, types.StageSeniorResearcher
	case lastRatio > lastRatioLeadership:
		return seniority, types.StageMidCareerLeadership
	case seniority > establishedScore:
		return seniority, types.StageEstablishedResearcher
	case total > experiencedTotal:
		return seniority, types.StageExperiencedResearcher
	default:
		return seniority, types.StageMidCareer
	}
}

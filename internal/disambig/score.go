// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// BaseConfidence is the starting score for every candidate before any
// match rule fires. It reflects baseline trust in source-side author
// disambiguation quality.
const BaseConfidence = 0.6

// Score increments, one per rule. Each rule fires at most once.
const (
	exactNameBonus   = 0.3
	partialNameBonus = 0.2
	altNameBonus     = 0.1
	orcidBonus       = 0.1
	affiliationBonus = 0.2
	fieldBonus       = 0.15
	activityBonus    = 0.05
)

// activeWorksThreshold is the works count above which a candidate is
// considered an active researcher.
const activeWorksThreshold = 10

// fieldTopicWindow is how many top-ranked topic labels the research-field
// rule inspects.
const fieldTopicWindow = 10

// ScoreCandidate computes the match confidence between a raw author
// record and the query, returning the clamped score and the ordered list
// of human-readable reasons for each increment. The function is pure:
// identical inputs always produce identical output.
//
// Rules fire in a fixed order, each at most once:
//
//  1. exact name match +0.3, else substring match either way +0.2
//  2. any alternate name contains the query name +0.1
//  3. ORCID present +0.1
//  4. any affiliation contains the query affiliation +0.2
//  5. any of the top topics overlaps the query field +0.15
//  6. works count above the activity threshold +0.05
func ScoreCandidate(raw types.RawAuthorRecord, q Query) (float64, []string) {
	confidence := BaseConfidence
	var reasons []string

	name := strings.ToLower(raw.DisplayName)
	queryName := strings.ToLower(q.Name)

	if name == queryName {
		confidence += exactNameBonus
		reasons = append(reasons, "Exact name match")
	} else if strings.Contains(name, queryName) || strings.Contains(queryName, name) {
		confidence += partialNameBonus
		reasons = append(reasons, "Partial name match")
	}

	for _, alt := range raw.AlternateNames {
		if strings.Contains(strings.ToLower(alt), queryName) {
			confidence += altNameBonus
			reasons = append(reasons, "Alternative name match")
			break
		}
	}

	if raw.ORCID != "" {
		confidence += orcidBonus
		reasons = append(reasons, "ORCID verified")
	}

	if q.Affiliation != "" {
		queryAff := strings.ToLower(q.Affiliation)
		for _, aff := range raw.Affiliations {
			if strings.Contains(strings.ToLower(aff), queryAff) {
				confidence += affiliationBonus
				reasons = append(reasons, "Affiliation match: "+aff)
				break
			}
		}
	}

	if q.Field != "" {
		queryField := strings.ToLower(q.Field)
		topics := raw.Topics
		if len(topics) > fieldTopicWindow {
			topics = topics[:fieldTopicWindow]
		}
		for _, topic := range topics {
			t := strings.ToLower(topic)
			if strings.Contains(t, queryField) || strings.Contains(queryField, t) {
				confidence += fieldBonus
				reasons = append(reasons, "Research field match: "+topic)
				break
			}
		}
	}

	if raw.WorksCount > activeWorksThreshold {
		confidence += activityBonus
		reasons = append(reasons, "Active researcher")
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence, reasons
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// defaultTopicLimit is the number of top-ranked topic labels kept when
// the config does not override it.
const defaultTopicLimit = 5

// BuildCandidate maps a raw source record into a canonical candidate.
// It never fails: missing or malformed fields degrade to zero values, so
// a partially populated candidate survives rather than dropping the
// record. Scoring and classification fields are filled in later by the
// engine; the candidate is not mutated after the engine returns it.
func BuildCandidate(raw types.RawAuthorRecord, source string, topicLimit int) types.AuthorCandidate {
	if topicLimit <= 0 {
		topicLimit = defaultTopicLimit
	}

	c := types.AuthorCandidate{
		DisplayName:   strings.TrimSpace(raw.DisplayName),
		Source:        source,
		ORCID:         strings.TrimSpace(raw.ORCID),
		WorksCount:    raw.WorksCount,
		CitationCount: raw.CitedByCount,
		HIndex:        raw.HIndex,
		ProfileURL:    raw.ProfileURL,
	}
	if c.WorksCount < 0 {
		c.WorksCount = 0
	}
	if c.CitationCount < 0 {
		c.CitationCount = 0
	}

	if raw.SourceID != "" {
		c.SourceID = source + ":" + raw.SourceID
	}

	for _, alt := range raw.AlternateNames {
		if alt = strings.TrimSpace(alt); alt != "" {
			c.AlternateNames = append(c.AlternateNames, alt)
		}
	}

	for _, aff := range raw.Affiliations {
		if aff = strings.TrimSpace(aff); aff != "" {
			c.Affiliations = append(c.Affiliations, aff)
		}
	}

	topics := raw.Topics
	if len(topics) > topicLimit {
		topics = topics[:topicLimit]
	}
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			c.ResearchTopics = append(c.ResearchTopics, topic)
		}
	}

	if raw.FirstPubYear > 0 && raw.LastPubYear >= raw.FirstPubYear {
		c.FirstPublicationYear = raw.FirstPubYear
		c.LastPublicationYear = raw.LastPubYear
		c.CareerLength = raw.LastPubYear - raw.FirstPubYear + 1
	}

	return c
}

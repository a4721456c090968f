// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// AnalyzePositions counts first/middle/last authorship over at most
// sampleLimit publications, most-recent first. The identity is located in
// each author list by source ID first, then by case-insensitive name. A
// publication where the identity cannot be located contributes to no
// bucket and does not count toward the sample total.
//
// Position 0 is first; the final index is last; anything between is
// middle. A single-author paper counts as first: the first-author check
// wins because the "last author as PI" convention needs at least two
// authors.
func AnalyzePositions(identity types.AuthorIdentity, pubs []types.Publication, sampleLimit int) types.AuthorshipPositions {
	if sampleLimit > 0 && len(pubs) > sampleLimit {
		pubs = pubs[:sampleLimit]
	}

	var positions types.AuthorshipPositions
	for _, pub := range pubs {
		idx := locateAuthor(identity, pub.Authors)
		if idx < 0 {
			continue
		}
		switch {
		case idx == 0:
			positions.First++
		case idx == len(pub.Authors)-1:
			positions.Last++
		default:
			positions.Middle++
		}
	}
	return positions
}

// locateAuthor returns the identity's index in the author list, or -1.
// Source ID comparison takes priority over name comparison.
func locateAuthor(identity types.AuthorIdentity, authors []types.Authorship) int {
	if identity.SourceID != "" {
		for i, a := range authors {
			if a.AuthorID == identity.SourceID {
				return i
			}
		}
	}
	if identity.DisplayName != "" {
		name := strings.ToLower(identity.DisplayName)
		for i, a := range authors {
			if strings.ToLower(a.DisplayName) == name {
				return i
			}
		}
	}
	return -1
}

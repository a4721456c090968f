// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/pdiddy/scholar-id/internal/httputil"
	"github.com/pdiddy/scholar-id/pkg/types"
)

// semanticAuthorSearchBase is the Semantic Scholar author search
// endpoint. Declared as a var so tests can substitute an httptest server.
var semanticAuthorSearchBase = "https://api.semanticscholar.org/graph/v1/author/search"

// semanticAuthorFields requests the author metadata plus a nested paper
// sample with author lists, so no second request is needed for position
// analysis.
const semanticAuthorFields = "authorId,name,aliases,affiliations,paperCount,citationCount," +
	"hIndex,externalIds,papers.paperId,papers.title,papers.year,papers.citationCount," +
	"papers.authors,papers.fieldsOfStudy"

// SemanticScholarSource queries the Semantic Scholar Graph API. Unlike
// OpenAlex it embeds the paper sample in the search response, so this
// source does not implement WorksFetcher.
type SemanticScholarSource struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() string { return "semantic_scholar" }

// FetchCandidates searches Semantic Scholar authors by name. The API has
// no ORCID or affiliation filter, so those query hints only influence
// scoring downstream.
func (s *SemanticScholarSource) FetchCandidates(ctx context.Context, q Query, limit int) ([]types.RawAuthorRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"query":  {q.Name},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticAuthorFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAuthorSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticAuthorResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	records := make([]types.RawAuthorRecord, 0, len(sr.Data))
	for _, author := range sr.Data {
		records = append(records, author.toRawRecord())
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticAuthorResponse struct {
	Total int              `json:"total"`
	Data  []semanticAuthor `json:"data"`
}

type semanticAuthor struct {
	AuthorID      string           `json:"authorId"`
	Name          string           `json:"name"`
	Aliases       []string         `json:"aliases"`
	Affiliations  []string         `json:"affiliations"`
	PaperCount    int              `json:"paperCount"`
	CitationCount int              `json:"citationCount"`
	HIndex        *int             `json:"hIndex"`
	ExternalIDs   map[string]any   `json:"externalIds"`
	Papers        []semanticPaper  `json:"papers"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Year          int                 `json:"year"`
	CitationCount int                 `json:"citationCount"`
	Authors       []semanticAuthorRef `json:"authors"`
	FieldsOfStudy []string            `json:"fieldsOfStudy"`
}

type semanticAuthorRef struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// toRawRecord maps one Semantic Scholar author into the source-agnostic
// raw form. Papers arrive newest-first, matching the recency bias the
// position analyzer expects. Topics are synthesized from the papers'
// fields of study, ranked by how often each field appears.
func (a semanticAuthor) toRawRecord() types.RawAuthorRecord {
	raw := types.RawAuthorRecord{
		SourceID:       a.AuthorID,
		DisplayName:    a.Name,
		AlternateNames: a.Aliases,
		Affiliations:   a.Affiliations,
		WorksCount:     a.PaperCount,
		CitedByCount:   a.CitationCount,
		HIndex:         a.HIndex,
	}
	if a.AuthorID != "" {
		raw.ProfileURL = "https://www.semanticscholar.org/author/" + a.AuthorID
	}
	if orcid, ok := a.ExternalIDs["ORCID"].(string); ok {
		raw.ORCID = orcid
	}

	fieldCounts := make(map[string]int)
	var fieldOrder []string
	for _, paper := range a.Papers {
		pub := types.Publication{
			ID:           paper.PaperID,
			Title:        paper.Title,
			Year:         paper.Year,
			CitedByCount: paper.CitationCount,
		}
		for _, author := range paper.Authors {
			pub.Authors = append(pub.Authors, types.Authorship{
				AuthorID:    author.AuthorID,
				DisplayName: author.Name,
			})
		}
		raw.Publications = append(raw.Publications, pub)

		if paper.Year > 0 {
			if raw.FirstPubYear == 0 || paper.Year < raw.FirstPubYear {
				raw.FirstPubYear = paper.Year
			}
			if paper.Year > raw.LastPubYear {
				raw.LastPubYear = paper.Year
			}
		}
		for _, field := range paper.FieldsOfStudy {
			if fieldCounts[field] == 0 {
				fieldOrder = append(fieldOrder, field)
			}
			fieldCounts[field]++
		}
	}

	sort.SliceStable(fieldOrder, func(i, j int) bool {
		return fieldCounts[fieldOrder[i]] > fieldCounts[fieldOrder[j]]
	})
	raw.Topics = fieldOrder

	return raw
}

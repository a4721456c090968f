// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/scholar-id/internal/httputil"
	"github.com/pdiddy/scholar-id/pkg/types"
)

// OpenAlex API endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	openAlexAuthorsBase = "https://api.openalex.org/authors"
	openAlexWorksBase   = "https://api.openalex.org/works"
)

const openAlexIDPrefix = "https://openalex.org/"

// openAlexMaxPerPage is the authors endpoint page-size ceiling.
const openAlexMaxPerPage = 25

// openAlexAuthorSelect trims the authors response to the fields the
// normalizer consumes.
const openAlexAuthorSelect = "id,display_name,display_name_alternatives,orcid," +
	"last_known_institutions,works_count,cited_by_count,summary_stats," +
	"x_concepts,counts_by_year"

// openAlexWorkSelect trims the works response for position analysis.
const openAlexWorkSelect = "id,title,publication_year,authorships,cited_by_count,type"

// OpenAlexSource queries the OpenAlex authors and works APIs. OpenAlex
// runs its own ML-based author disambiguation, so a single result row is
// already a consolidated author cluster.
type OpenAlexSource struct {
	Client *http.Client
	// Email is sent as the mailto parameter for polite pool access.
	Email     string
	UserAgent string
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// FetchCandidates searches the OpenAlex authors endpoint. An ORCID in
// the query becomes a filter for precise matching; otherwise the name is
// used as the search term. A query affiliation narrows the search via
// the last-known-institutions filter.
func (s *OpenAlexSource) FetchCandidates(ctx context.Context, q Query, limit int) ([]types.RawAuthorRecord, error) {
	if limit <= 0 || limit > openAlexMaxPerPage {
		limit = openAlexMaxPerPage
	}

	params := url.Values{
		"per-page": {fmt.Sprintf("%d", limit)},
		"select":   {openAlexAuthorSelect},
	}

	var filters []string
	if q.ORCID != "" {
		filters = append(filters, "orcid:"+q.ORCID)
	} else {
		params.Set("search", q.Name)
	}
	if q.Affiliation != "" {
		filters = append(filters, fmt.Sprintf("last_known_institutions.display_name.search:%q", q.Affiliation))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var resp openAlexAuthorsResponse
	if err := s.getJSON(ctx, openAlexAuthorsBase+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	records := make([]types.RawAuthorRecord, 0, len(resp.Results))
	for _, author := range resp.Results {
		records = append(records, author.toRawRecord())
	}
	return records, nil
}

// FetchRecentPublications returns up to limit works for the author,
// most-recent first. The descending publication-date sort is what gives
// position analysis its deliberate recency bias.
func (s *OpenAlexSource) FetchRecentPublications(ctx context.Context, sourceID string, limit int) ([]types.Publication, error) {
	params := url.Values{
		"filter":   {"author.id:" + sourceID},
		"per-page": {fmt.Sprintf("%d", limit)},
		"sort":     {"publication_date:desc"},
		"select":   {openAlexWorkSelect},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var resp openAlexWorksResponse
	if err := s.getJSON(ctx, openAlexWorksBase+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	pubs := make([]types.Publication, 0, len(resp.Results))
	for _, work := range resp.Results {
		pub := types.Publication{
			ID:           strings.TrimPrefix(work.ID, openAlexIDPrefix),
			Title:        work.Title,
			Year:         work.PublicationYear,
			Type:         work.Type,
			CitedByCount: work.CitedByCount,
		}
		for _, authorship := range work.Authorships {
			pub.Authors = append(pub.Authors, types.Authorship{
				AuthorID:    strings.TrimPrefix(authorship.Author.ID, openAlexIDPrefix),
				DisplayName: authorship.Author.DisplayName,
			})
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func (s *OpenAlexSource) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// OpenAlex API JSON structures.
type openAlexAuthorsResponse struct {
	Results []openAlexAuthor `json:"results"`
}

type openAlexAuthor struct {
	ID                      string                    `json:"id"`
	DisplayName             string                    `json:"display_name"`
	DisplayNameAlternatives []string                  `json:"display_name_alternatives"`
	ORCID                   string                    `json:"orcid"`
	LastKnownInstitutions   []openAlexInstitutionRef  `json:"last_known_institutions"`
	WorksCount              int                       `json:"works_count"`
	CitedByCount            int                       `json:"cited_by_count"`
	SummaryStats            openAlexSummaryStats      `json:"summary_stats"`
	XConcepts               []openAlexConcept         `json:"x_concepts"`
	CountsByYear            []openAlexYearCount       `json:"counts_by_year"`
}

type openAlexInstitutionRef struct {
	DisplayName string `json:"display_name"`
}

type openAlexSummaryStats struct {
	HIndex *int `json:"h_index"`
}

type openAlexConcept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

type openAlexYearCount struct {
	Year       int `json:"year"`
	WorksCount int `json:"works_count"`
}

type openAlexWorksResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	PublicationYear int                  `json:"publication_year"`
	Type            string               `json:"type"`
	CitedByCount    int                  `json:"cited_by_count"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	Author openAlexAuthorRef `json:"author"`
}

type openAlexAuthorRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// toRawRecord maps one OpenAlex author row into the source-agnostic raw
// form. x_concepts arrive sorted by score, so their order carries the
// source's relevance ranking.
func (a openAlexAuthor) toRawRecord() types.RawAuthorRecord {
	cleanID := strings.TrimPrefix(a.ID, openAlexIDPrefix)

	raw := types.RawAuthorRecord{
		SourceID:       cleanID,
		DisplayName:    a.DisplayName,
		AlternateNames: a.DisplayNameAlternatives,
		ORCID:          strings.TrimPrefix(a.ORCID, "https://orcid.org/"),
		WorksCount:     a.WorksCount,
		CitedByCount:   a.CitedByCount,
		HIndex:         a.SummaryStats.HIndex,
	}
	if cleanID != "" {
		raw.ProfileURL = openAlexIDPrefix + cleanID
	}

	for _, inst := range a.LastKnownInstitutions {
		raw.Affiliations = append(raw.Affiliations, inst.DisplayName)
	}
	for _, concept := range a.XConcepts {
		raw.Topics = append(raw.Topics, concept.DisplayName)
	}

	for _, yc := range a.CountsByYear {
		if yc.WorksCount <= 0 {
			continue
		}
		if raw.FirstPubYear == 0 || yc.Year < raw.FirstPubYear {
			raw.FirstPubYear = yc.Year
		}
		if yc.Year > raw.LastPubYear {
			raw.LastPubYear = yc.Year
		}
	}
	return raw
}

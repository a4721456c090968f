// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

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

// openAlexInstitutionsBase is the OpenAlex institutions search endpoint.
// Declared as a var so tests can substitute an httptest server.
var openAlexInstitutionsBase = "https://api.openalex.org/institutions"

const openAlexInstitutionSelect = "id,display_name,display_name_alternatives,country_code,type,homepage_url"

// OpenAlexSource fetches candidate institution records from the live
// OpenAlex institutions API.
type OpenAlexSource struct {
	Client    *http.Client
	Email     string
	UserAgent string
}

// Lookup searches institutions by name or abbreviation.
func (s *OpenAlexSource) Lookup(ctx context.Context, query string, limit int) ([]types.RawInstitutionRecord, error) {
	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", limit)},
		"select":   {openAlexInstitutionSelect},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexInstitutionsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var ir openAlexInstitutionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	records := make([]types.RawInstitutionRecord, 0, len(ir.Results))
	for _, inst := range ir.Results {
		records = append(records, types.RawInstitutionRecord{
			SourceID:       strings.TrimPrefix(inst.ID, "https://openalex.org/"),
			DisplayName:    inst.DisplayName,
			AlternateNames: inst.DisplayNameAlternatives,
			CountryCode:    inst.CountryCode,
			Type:           inst.Type,
			HomepageURL:    inst.HomepageURL,
		})
	}
	return records, nil
}

// OpenAlex institutions API JSON structures.
type openAlexInstitutionsResponse struct {
	Results []openAlexInstitution `json:"results"`
}

type openAlexInstitution struct {
	ID                      string   `json:"id"`
	DisplayName             string   `json:"display_name"`
	DisplayNameAlternatives []string `json:"display_name_alternatives"`
	CountryCode             string   `json:"country_code"`
	Type                    string   `json:"type"`
	HomepageURL             string   `json:"homepage_url"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleSemanticAuthorsJSON = `{
  "total": 1,
  "data": [
    {
      "authorId": "145780291",
      "name": "Jane Smith",
      "aliases": ["J. Smith"],
      "affiliations": ["MIT"],
      "paperCount": 87,
      "citationCount": 2210,
      "hIndex": 24,
      "externalIds": {"ORCID": "0000-0002-1825-0097"},
      "papers": [
        {
          "paperId": "p1",
          "title": "Newest Paper",
          "year": 2024,
          "citationCount": 5,
          "authors": [
            {"authorId": "145780291", "name": "Jane Smith"},
            {"authorId": "2", "name": "Bob Brown"}
          ],
          "fieldsOfStudy": ["Biology", "Medicine"]
        },
        {
          "paperId": "p2",
          "title": "Older Paper",
          "year": 2015,
          "citationCount": 300,
          "authors": [
            {"authorId": "2", "name": "Bob Brown"},
            {"authorId": "145780291", "name": "Jane Smith"}
          ],
          "fieldsOfStudy": ["Biology"]
        }
      ]
    }
  ]
}`

func TestSemanticScholarFetchCandidates(t *testing.T) {
	var gotURL string
	var gotAPIKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotAPIKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleSemanticAuthorsJSON)
	}))
	defer ts.Close()

	old := semanticAuthorSearchBase
	semanticAuthorSearchBase = ts.URL
	defer func() { semanticAuthorSearchBase = old }()

	s := &SemanticScholarSource{Client: ts.Client(), APIKey: "secret-key", UserAgent: "test/0.1"}
	records, err := s.FetchCandidates(context.Background(), Query{Name: "Jane Smith"}, 10)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	r := records[0]
	if r.SourceID != "145780291" {
		t.Errorf("SourceID = %q", r.SourceID)
	}
	if r.ORCID != "0000-0002-1825-0097" {
		t.Errorf("ORCID = %q, want extracted from externalIds", r.ORCID)
	}
	if r.HIndex == nil || *r.HIndex != 24 {
		t.Errorf("HIndex = %v, want 24", r.HIndex)
	}
	if r.ProfileURL != "https://www.semanticscholar.org/author/145780291" {
		t.Errorf("ProfileURL = %q", r.ProfileURL)
	}

	// Papers are embedded, so no separate works fetch is needed.
	if len(r.Publications) != 2 {
		t.Fatalf("len(Publications) = %d, want 2", len(r.Publications))
	}
	if r.Publications[0].Authors[0].AuthorID != "145780291" {
		t.Errorf("first paper author order = %v", r.Publications[0].Authors)
	}
	if r.FirstPubYear != 2015 || r.LastPubYear != 2024 {
		t.Errorf("pub years = %d-%d, want 2015-2024", r.FirstPubYear, r.LastPubYear)
	}

	// Topics are fields of study ranked by frequency.
	if len(r.Topics) != 2 || r.Topics[0] != "Biology" {
		t.Errorf("Topics = %v, want Biology first (appears twice)", r.Topics)
	}

	if gotAPIKey != "secret-key" {
		t.Errorf("x-api-key = %q, want header set", gotAPIKey)
	}
	if !strings.Contains(gotURL, "query=Jane+Smith") {
		t.Errorf("URL = %q, want name query", gotURL)
	}
	if !strings.Contains(gotURL, "papers.authors") {
		t.Errorf("URL = %q, want nested paper author fields requested", gotURL)
	}
}

func TestSemanticScholarDoesNotImplementWorksFetcher(t *testing.T) {
	var src Source = &SemanticScholarSource{}
	if _, ok := src.(WorksFetcher); ok {
		t.Error("SemanticScholarSource embeds papers and must not implement WorksFetcher")
	}
}

func TestSemanticScholarHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := semanticAuthorSearchBase
	semanticAuthorSearchBase = ts.URL
	defer func() { semanticAuthorSearchBase = old }()

	s := &SemanticScholarSource{Client: ts.Client()}
	_, err := s.FetchCandidates(context.Background(), Query{Name: "Jane Smith"}, 10)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected HTTP 403 error, got: %v", err)
	}
}

func TestSemanticScholarMissingORCID(t *testing.T) {
	body := `{"total": 1, "data": [{"authorId": "1", "name": "X", "externalIds": {"DBLP": ["x"]}}]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := semanticAuthorSearchBase
	semanticAuthorSearchBase = ts.URL
	defer func() { semanticAuthorSearchBase = old }()

	s := &SemanticScholarSource{Client: ts.Client()}
	records, err := s.FetchCandidates(context.Background(), Query{Name: "X"}, 10)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if records[0].ORCID != "" {
		t.Errorf("ORCID = %q, want empty when externalIds lacks it", records[0].ORCID)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/scholar-id/pkg/types"
)

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Result{Query: Query{Name: "Nobody"}}, &buf)
	if !strings.Contains(buf.String(), "No candidates found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatTableAllSourcesFailed(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Result{
		Query:        Query{Name: "Nobody"},
		SourceErrors: []string{"openalex: HTTP 500", "semantic_scholar: timeout"},
	}, &buf)

	out := buf.String()
	if !strings.Contains(out, "All sources failed") {
		t.Errorf("output should explain the empty result: %q", out)
	}
	if !strings.Contains(out, "openalex: HTTP 500") {
		t.Errorf("output should list source errors: %q", out)
	}
}

func TestFormatTableCandidates(t *testing.T) {
	best := types.AuthorCandidate{
		SourceID:        "openalex:A1",
		DisplayName:     "Jane Smith",
		ConfidenceScore: 0.95,
		CareerStage:     types.StageSeniorResearcher,
		WorksCount:      142,
		Affiliations:    []string{"MIT"},
		MatchReasons:    []string{"Exact name match", "ORCID verified"},
	}
	result := Result{
		Query:               Query{Name: "Jane Smith", Affiliation: "MIT"},
		ResolvedAffiliation: "Massachusetts Institute of Technology",
		BestMatch:           &best,
		Candidates:          []types.AuthorCandidate{best},
		TotalFound:          3,
	}

	var buf bytes.Buffer
	FormatTable(result, &buf)
	out := buf.String()

	for _, want := range []string{
		"Jane Smith", "senior_researcher", "openalex:A1",
		"Massachusetts Institute of Technology",
		"1 of 3 candidates", "Exact name match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	result := Result{
		Query:      Query{Name: "Jane Smith"},
		Candidates: []types.AuthorCandidate{{DisplayName: "Jane Smith", CareerStage: types.StageEarlyCareer}},
		TotalFound: 1,
	}

	var buf bytes.Buffer
	if err := FormatJSON(result, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if decoded.Candidates[0].CareerStage != types.StageEarlyCareer {
		t.Errorf("CareerStage = %v, stages must serialize as readable text", decoded.Candidates[0].CareerStage)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long display name", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
	if len(truncate("a very long display name", 10)) != 10 {
		t.Error("truncated string must fit the column")
	}
}

func TestTruncateMultiByteNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"accented author", "José María Rodríguez García", 10, "José Ma..."},
		{"cjk institution", "東京大学大学院情報理工学系研究科", 8, "東京大学大..."},
		{"umlaut boundary", "Jürgen Müller-Hartmann", 10, "Jürgen ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
			}
			if utf8.RuneCountInString(got) > tt.max {
				t.Errorf("truncate(%q, %d) is %d runes", tt.in, tt.max, utf8.RuneCountInString(got))
			}
		})
	}
}

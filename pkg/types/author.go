// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-id
// resolution engine: raw source records, canonical author candidates,
// institution matches, and stage configuration.
package types

import "fmt"

// AuthorshipPositions counts where an author appears in the author lists
// of a sampled window of their publications. The sum of the three buckets
// equals the number of sampled publications where the author could be
// located, not the author's total works count.
type AuthorshipPositions struct {
	First  int `json:"first" yaml:"first"`
	Middle int `json:"middle" yaml:"middle"`
	Last   int `json:"last" yaml:"last"`
}

// Total returns the number of sampled publications that contributed to
// any position bucket.
func (p AuthorshipPositions) Total() int {
	return p.First + p.Middle + p.Last
}

// CareerStage classifies an author's career phase from their authorship
// pattern and aggregate metrics. The zero value is StageNoPublications.
type CareerStage int

const (
	StageNoPublications CareerStage = iota
	StageVeryEarlyCareer
	StageEarlyCareer
	StageMidCareer
	StageMidCareerLeadership
	StageEstablishedResearcher
	StageExperiencedResearcher
	StageSeniorResearcher
)

func (s CareerStage) String() string {
	switch s {
	case StageNoPublications:
		return "no_publications"
	case StageVeryEarlyCareer:
		return "very_early_career"
	case StageEarlyCareer:
		return "early_career"
	case StageMidCareer:
		return "mid_career"
	case StageMidCareerLeadership:
		return "mid_career_leadership"
	case StageEstablishedResearcher:
		return "established_researcher"
	case StageExperiencedResearcher:
		return "experienced_researcher"
	case StageSeniorResearcher:
		return "senior_researcher"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so career stages appear
// as readable strings in JSON and YAML output.
func (s CareerStage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CareerStage) UnmarshalText(text []byte) error {
	for stage := StageNoPublications; stage <= StageSeniorResearcher; stage++ {
		if stage.String() == string(text) {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown career stage %q", text)
}

// Authorship names one author slot in a publication's author list.
type Authorship struct {
	AuthorID    string `json:"author_id" yaml:"author_id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Publication is one paper from an author's recent-works sample, carrying
// the full ordered author list so positions can be analyzed.
type Publication struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Year         int          `json:"year,omitempty" yaml:"year,omitempty"`
	Type         string       `json:"type,omitempty" yaml:"type,omitempty"`
	CitedByCount int          `json:"cited_by_count" yaml:"cited_by_count"`
	Authors      []Authorship `json:"authors" yaml:"authors"`
}

// AuthorIdentity is the minimal identity used to locate an author inside
// a publication's author list: source-specific ID first, name as fallback.
type AuthorIdentity struct {
	SourceID    string
	DisplayName string
}

// RawAuthorRecord is the source-agnostic raw form a bibliographic adapter
// emits before normalization. Fields may be missing or zero; downstream
// stages treat absence as "no signal" rather than an error. SourceID is
// the bare identifier within its origin source (e.g. "A5058921480").
type RawAuthorRecord struct {
	SourceID       string
	DisplayName    string
	AlternateNames []string
	ORCID          string
	Affiliations   []string
	WorksCount     int
	CitedByCount   int
	HIndex         *int
	Topics         []string // ranked by source relevance, best first
	FirstPubYear   int
	LastPubYear    int
	ProfileURL     string

	// Publications is an optional pre-fetched recent-works sample. Sources
	// whose search response embeds papers populate it directly; otherwise
	// the engine fetches a sample through the source's works endpoint.
	Publications []Publication
}

// AuthorCandidate is the canonical, fully scored representation of one
// proposed real-world identity for a disambiguation query. Candidates are
// built fresh per query and never mutated after construction.
type AuthorCandidate struct {
	DisplayName    string   `json:"display_name" yaml:"display_name"`
	AlternateNames []string `json:"alternate_names,omitempty" yaml:"alternate_names,omitempty"`

	// SourceID is the namespaced identifier in its origin source,
	// e.g. "openalex:A5058921480".
	SourceID string `json:"source_id" yaml:"source_id"`
	Source   string `json:"source" yaml:"source"`

	ORCID        string   `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	WorksCount    int  `json:"works_count" yaml:"works_count"`
	CitationCount int  `json:"citation_count" yaml:"citation_count"`
	HIndex        *int `json:"h_index,omitempty" yaml:"h_index,omitempty"`

	ResearchTopics []string `json:"research_topics,omitempty" yaml:"research_topics,omitempty"`

	FirstPublicationYear int `json:"first_publication_year,omitempty" yaml:"first_publication_year,omitempty"`
	LastPublicationYear  int `json:"last_publication_year,omitempty" yaml:"last_publication_year,omitempty"`
	CareerLength         int `json:"career_length,omitempty" yaml:"career_length,omitempty"`

	AuthorshipPositions AuthorshipPositions `json:"authorship_positions" yaml:"authorship_positions"`

	ConfidenceScore float64     `json:"confidence_score" yaml:"confidence_score"`
	MatchReasons    []string    `json:"match_reasons,omitempty" yaml:"match_reasons,omitempty"`
	SeniorityScore  float64     `json:"seniority_score" yaml:"seniority_score"`
	CareerStage     CareerStage `json:"career_stage" yaml:"career_stage"`

	ProfileURL string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by source adapters.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-id/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TieBreak selects the secondary sort metric used when candidates have
// equal confidence scores.
type TieBreak string

const (
	TieBreakSeniority TieBreak = "seniority"
	TieBreakCitations TieBreak = "citations"
)

// DisambiguationConfig holds settings for the author resolution engine.
type DisambiguationConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxCandidates is the maximum number of ranked candidates to return
	// (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// WorksSampleLimit is the number of most-recent publications fetched
	// per candidate for authorship position analysis (default 20). The
	// recency bias is deliberate: the recent authorship pattern is a
	// better predictor of current career stage than the historic one.
	WorksSampleLimit int `json:"works_sample_limit" yaml:"works_sample_limit"`

	// TopicLimit is the number of top-ranked topic labels kept per
	// candidate (default 5).
	TopicLimit int `json:"topic_limit" yaml:"topic_limit"`

	// TieBreak selects the metric that breaks confidence ties:
	// "seniority" (default) or "citations".
	TieBreak TieBreak `json:"tie_break" yaml:"tie_break"`

	// InterSourceDelay is the stagger between fan-out requests to
	// different sources (default 0).
	InterSourceDelay time.Duration `json:"inter_source_delay" yaml:"inter_source_delay"`

	// ResolveAffiliation expands the query affiliation through the
	// institution resolver before scoring, so abbreviations like "EMBO"
	// can substring-match full institution names.
	ResolveAffiliation bool `json:"resolve_affiliation" yaml:"resolve_affiliation"`

	// EnableOpenAlex controls whether the OpenAlex source is used.
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`

	// EnableSemanticScholar controls whether the Semantic Scholar source
	// is used.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// InstitutionConfig holds settings for the institution resolver.
type InstitutionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxCandidates is the number of candidate records fetched per query
	// before scoring (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// InterQueryDelay is the pause between consecutive queries in batch
	// resolution, as a courtesy to the upstream API (default 200ms).
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`
}

// CatalogConfig holds settings for the local institution catalog.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog database and
	// exports (default "catalog").
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of lookup results
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ResolverConfig groups all stage configurations.
type ResolverConfig struct {
	Disambiguation DisambiguationConfig `json:"disambiguation" yaml:"disambiguation"`
	Institution    InstitutionConfig    `json:"institution" yaml:"institution"`
	Catalog        CatalogConfig        `json:"catalog" yaml:"catalog"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// RawInstitutionRecord is one organization record as returned by an
// institution source, before match scoring.
type RawInstitutionRecord struct {
	SourceID       string   `json:"source_id" yaml:"source_id"`
	DisplayName    string   `json:"display_name" yaml:"display_name"`
	AlternateNames []string `json:"alternate_names,omitempty" yaml:"alternate_names,omitempty"`
	CountryCode    string   `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	HomepageURL    string   `json:"homepage_url,omitempty" yaml:"homepage_url,omitempty"`
}

// MatchTier classifies how an institution query matched a candidate
// record. Higher tiers are checked first per candidate; the first
// satisfied tier wins.
type MatchTier int

const (
	TierNone MatchTier = iota
	TierWordMatch
	TierPrefix
	TierAltPartial
	TierPartial
	TierAltExact
	TierExact
)

func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact_match"
	case TierAltExact:
		return "alternative_name_exact"
	case TierPartial:
		return "partial_match"
	case TierAltPartial:
		return "alternative_partial"
	case TierPrefix:
		return "prefix_match"
	case TierWordMatch:
		return "word_match"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t MatchTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *MatchTier) UnmarshalText(text []byte) error {
	for tier := TierNone; tier <= TierExact; tier++ {
		if tier.String() == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown match tier %q", text)
}

// InstitutionMatch is the single best resolution of an institution name
// or abbreviation to a canonical organization record.
type InstitutionMatch struct {
	CanonicalName  string    `json:"canonical_name" yaml:"canonical_name"`
	SourceID       string    `json:"source_id" yaml:"source_id"`
	CountryCode    string    `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Type           string    `json:"type,omitempty" yaml:"type,omitempty"`
	AlternateNames []string  `json:"alternate_names,omitempty" yaml:"alternate_names,omitempty"`
	HomepageURL    string    `json:"homepage_url,omitempty" yaml:"homepage_url,omitempty"`
	MatchScore     int       `json:"match_score" yaml:"match_score"`
	MatchTier      MatchTier `json:"match_tier" yaml:"match_tier"`
}

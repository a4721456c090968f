// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-id/internal/disambig"
	"github.com/pdiddy/scholar-id/internal/institution"
	"github.com/pdiddy/scholar-id/pkg/types"
)

var disambiguateCmd = &cobra.Command{
	Use:   "disambiguate [name]",
	Short: "Resolve an author name to ranked candidate identities",
	Long: `Disambiguate queries bibliographic sources (OpenAlex, Semantic Scholar)
for authors matching a name, scores each candidate against the optional
affiliation, research-field, and ORCID hints, and returns candidates ranked
by confidence with career-stage analysis.

With --resolve-affiliation the affiliation hint is first expanded through
the institution resolver, so abbreviations like "EMBO" can match full
institution names during scoring.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisambiguate,
}

func runDisambiguate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if name == "" && len(args) > 0 {
		name = args[0]
	}
	affiliation, _ := cmd.Flags().GetString("affiliation")
	field, _ := cmd.Flags().GetString("field")
	orcid, _ := cmd.Flags().GetString("orcid")

	cfg := disambiguationConfig(cmd)
	client := newHTTPClient(cfg.HTTPConfig)

	var sources []disambig.Source
	if cfg.EnableOpenAlex {
		sources = append(sources, &disambig.OpenAlexSource{
			Client:    client,
			Email:     cfg.OpenAlexEmail,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableSemanticScholar {
		sources = append(sources, &disambig.SemanticScholarSource{
			Client:    client,
			APIKey:    cfg.SemanticScholarAPIKey,
			UserAgent: cfg.UserAgent,
		})
	}

	engine := &disambig.Engine{
		Sources: sources,
		Config:  cfg,
	}
	if cfg.ResolveAffiliation {
		engine.Affiliations = &institution.Resolver{
			Source: &institution.OpenAlexSource{
				Client:    client,
				Email:     cfg.OpenAlexEmail,
				UserAgent: cfg.UserAgent,
			},
			Config: institutionConfig(cmd),
		}
	}

	query := disambig.Query{
		Name:        name,
		Affiliation: affiliation,
		Field:       field,
		ORCID:       orcid,
	}

	result, err := engine.Disambiguate(context.Background(), query, os.Stderr)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return disambig.FormatJSON(result, os.Stdout)
	}
	disambig.FormatTable(result, os.Stdout)
	return nil
}

// disambiguationConfig merges flags, the config file, and secrets into
// the engine configuration. Flags win over the config file.
func disambiguationConfig(cmd *cobra.Command) types.DisambiguationConfig {
	cfg := types.DisambiguationConfig{
		HTTPConfig:            httpConfig(),
		MaxCandidates:         viper.GetInt("disambiguation.max_candidates"),
		WorksSampleLimit:      viper.GetInt("disambiguation.works_sample_limit"),
		TopicLimit:            viper.GetInt("disambiguation.topic_limit"),
		TieBreak:              types.TieBreak(viper.GetString("disambiguation.tie_break")),
		InterSourceDelay:      viper.GetDuration("disambiguation.inter_source_delay"),
		EnableOpenAlex:        true,
		EnableSemanticScholar: viper.GetBool("disambiguation.enable_semantic_scholar"),
	}

	if v, err := cmd.Flags().GetInt("max-candidates"); err == nil && cmd.Flags().Changed("max-candidates") {
		cfg.MaxCandidates = v
	}
	if v, err := cmd.Flags().GetInt("sample-limit"); err == nil && cmd.Flags().Changed("sample-limit") {
		cfg.WorksSampleLimit = v
	}
	if v, err := cmd.Flags().GetString("tie-break"); err == nil && cmd.Flags().Changed("tie-break") {
		cfg.TieBreak = types.TieBreak(v)
	}
	if v, err := cmd.Flags().GetBool("semantic-scholar"); err == nil && cmd.Flags().Changed("semantic-scholar") {
		cfg.EnableSemanticScholar = v
	}
	if v, err := cmd.Flags().GetBool("resolve-affiliation"); err == nil {
		cfg.ResolveAffiliation = v
	}

	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 5
	}
	if cfg.WorksSampleLimit <= 0 {
		cfg.WorksSampleLimit = 20
	}
	if cfg.TieBreak == "" {
		cfg.TieBreak = types.TieBreakSeniority
	}

	cfg.OpenAlexEmail = secretDefault("openalex-email", viper.GetString("disambiguation.openalex_email"))
	cfg.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key", viper.GetString("disambiguation.semantic_scholar_api_key"))
	return cfg
}

func init() {
	disambiguateCmd.Flags().String("name", "", "author name to resolve (required unless given as argument)")
	disambiguateCmd.Flags().String("affiliation", "", "institution hint to improve matching")
	disambiguateCmd.Flags().String("field", "", "research field or topic hint")
	disambiguateCmd.Flags().String("orcid", "", "ORCID identifier for precise matching")
	disambiguateCmd.Flags().Int("max-candidates", 5, "maximum number of ranked candidates to return")
	disambiguateCmd.Flags().Int("sample-limit", 20, "recent publications sampled per candidate for position analysis")
	disambiguateCmd.Flags().String("tie-break", "seniority", "confidence tie-break metric: seniority or citations")
	disambiguateCmd.Flags().Bool("semantic-scholar", false, "also query Semantic Scholar")
	disambiguateCmd.Flags().Bool("resolve-affiliation", false, "expand the affiliation hint through the institution resolver before scoring")
	disambiguateCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(disambiguateCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-id/internal/catalog"
	"github.com/pdiddy/scholar-id/internal/institution"
	"github.com/pdiddy/scholar-id/pkg/types"
)

var institutionCmd = &cobra.Command{
	Use:   "institution [query ...]",
	Short: "Resolve institution names or abbreviations to canonical records",
	Long: `Institution resolves one or more organization names or abbreviations
(for example "MIT" or "EMBO") to canonical institution records. Multiple
queries are resolved sequentially with a small delay between API calls.

With --catalog the lookup runs against the local SQLite catalog instead
of the live OpenAlex API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstitution,
}

func runInstitution(cmd *cobra.Command, args []string) error {
	resolver, closeFn, err := newInstitutionResolver(cmd)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(args) == 1 {
		match, err := resolver.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		return printMatch(args[0], match, jsonOutput)
	}

	results, err := resolver.ResolveMany(ctx, args, os.Stderr)
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, query := range args {
		if err := printMatch(query, results[query], false); err != nil {
			return err
		}
	}
	return nil
}

func printMatch(query string, match *types.InstitutionMatch, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(match)
	}
	if match == nil {
		fmt.Printf("%s: no match\n", query)
		return nil
	}
	fmt.Printf("%s: %s [%s, score %d]", query, match.CanonicalName, match.MatchTier, match.MatchScore)
	if match.CountryCode != "" {
		fmt.Printf(" (%s)", strings.ToUpper(match.CountryCode))
	}
	fmt.Println()
	return nil
}

// newInstitutionResolver builds a resolver backed by either the local
// catalog or the live OpenAlex API. The returned close function is nil
// for the live source.
func newInstitutionResolver(cmd *cobra.Command) (*institution.Resolver, func() error, error) {
	cfg := institutionConfig(cmd)

	if useCatalog, _ := cmd.Flags().GetBool("catalog"); useCatalog {
		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return nil, nil, err
		}
		return &institution.Resolver{Source: store, Config: cfg}, store.Close, nil
	}

	httpCfg := httpConfig()
	source := &institution.OpenAlexSource{
		Client:    newHTTPClient(httpCfg),
		Email:     secretDefault("openalex-email", viper.GetString("disambiguation.openalex_email")),
		UserAgent: httpCfg.UserAgent,
	}
	return &institution.Resolver{Source: source, Config: cfg}, nil, nil
}

func institutionConfig(cmd *cobra.Command) types.InstitutionConfig {
	cfg := types.InstitutionConfig{
		HTTPConfig:      httpConfig(),
		MaxCandidates:   viper.GetInt("institution.max_candidates"),
		InterQueryDelay: viper.GetDuration("institution.inter_query_delay"),
	}
	if v, err := cmd.Flags().GetInt("lookup-limit"); err == nil && v > 0 {
		cfg.MaxCandidates = v
	}
	return cfg
}

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		CatalogDir: viper.GetString("catalog.dir"),
		MaxResults: viper.GetInt("catalog.max_results"),
	}
}

func init() {
	institutionCmd.Flags().Bool("catalog", false, "resolve against the local catalog instead of the live API")
	institutionCmd.Flags().Int("lookup-limit", 0, "candidate records fetched per query before scoring")
	institutionCmd.Flags().Bool("json", false, "output matches as JSON")

	rootCmd.AddCommand(institutionCmd)
}

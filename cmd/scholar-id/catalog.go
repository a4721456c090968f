// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-id/internal/catalog"
	"github.com/pdiddy/scholar-id/internal/institution"
	"github.com/pdiddy/scholar-id/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local institution catalog",
	Long: `Catalog maintains a local SQLite database of institution records so
institution resolution can run offline and without per-query API calls.
Records are ingested from the live OpenAlex API and can be exported as
YAML or JSON.`,
}

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest [query ...]",
	Short: "Fetch institution records from OpenAlex and store them locally",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogIngest,
}

var catalogExportCmd = &cobra.Command{
	Use:       "export {yaml|json}",
	Short:     "Export the catalog to a YAML or JSON file",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"yaml", "json"},
	RunE:      runCatalogExport,
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Args:  cobra.NoArgs,
	RunE:  runCatalogStats,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	httpCfg := httpConfig()
	source := &institution.OpenAlexSource{
		Client:    newHTTPClient(httpCfg),
		Email:     secretDefault("openalex-email", viper.GetString("disambiguation.openalex_email")),
		UserAgent: httpCfg.UserAgent,
	}
	perQuery, _ := cmd.Flags().GetInt("per-query")

	ctx := context.Background()
	var all []types.RawInstitutionRecord
	for _, query := range args {
		records, err := source.Lookup(ctx, query, perQuery)
		if err != nil {
			return fmt.Errorf("fetching %q: %w", query, err)
		}
		all = append(all, records...)
	}

	summary, err := store.Ingest(ctx, all)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d records: %d added, %d updated, %d skipped\n",
		summary.Total(), summary.Added, summary.Updated, summary.Skipped)
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch args[0] {
	case "yaml":
		err = store.ExportYAML(ctx)
	case "json":
		err = store.ExportJSON(ctx)
	default:
		return fmt.Errorf("unknown export format %q", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported catalog as %s\n", args[0])
	return nil
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Institutions catalogued: %d\n", n)
	return nil
}

func init() {
	catalogIngestCmd.Flags().Int("per-query", 10, "records fetched from OpenAlex per query")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	rootCmd.AddCommand(catalogCmd)
}

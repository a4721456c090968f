// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-id/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the full catalog to catalogDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	records, err := s.allRecords(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the full catalog to catalogDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	records, err := s.allRecords(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.json"), data, 0o644)
}

func (s *Store) allRecords(ctx context.Context) ([]types.RawInstitutionRecord, error) {
	return s.queryRecords(ctx,
		`SELECT id, display_name, country_code, type, homepage_url, alternates
		 FROM institutions
		 ORDER BY display_name
		 LIMIT ?`,
		exportLimit)
}

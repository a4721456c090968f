// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes the ranked candidates as a human-readable table to w.
func FormatTable(result Result, w io.Writer) {
	if len(result.Candidates) == 0 {
		fmt.Fprintln(w, "No candidates found.")
		if len(result.SourceErrors) > 0 {
			fmt.Fprintf(w, "All sources failed: %s\n", strings.Join(result.SourceErrors, "; "))
		}
		return
	}

	if result.ResolvedAffiliation != "" {
		fmt.Fprintf(w, "Affiliation %q resolved to %q\n\n", result.Query.Affiliation, result.ResolvedAffiliation)
	}

	fmt.Fprintf(w, "%-4s  %-28s  %-10s  %-24s  %-6s  %-30s  %s\n",
		"Rank", "Name", "Confidence", "Career stage", "Works", "Affiliation", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, c := range result.Candidates {
		affiliation := ""
		if len(c.Affiliations) > 0 {
			affiliation = c.Affiliations[0]
		}
		fmt.Fprintf(w, "%-4d  %-28s  %-10.2f  %-24s  %-6d  %-30s  %s\n",
			i+1, truncate(c.DisplayName, 28), c.ConfidenceScore, c.CareerStage,
			c.WorksCount, truncate(affiliation, 30), c.SourceID)
	}

	fmt.Fprintf(w, "\n%d of %d candidates", len(result.Candidates), result.TotalFound)
	if result.BestMatch != nil {
		fmt.Fprintf(w, "; best match %s (%.2f)", result.BestMatch.DisplayName, result.BestMatch.ConfidenceScore)
		if len(result.BestMatch.MatchReasons) > 0 {
			fmt.Fprintf(w, ": %s", strings.Join(result.BestMatch.MatchReasons, ", "))
		}
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the full result as indented JSON to w.
func FormatJSON(result Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// truncate shortens s to at most max runes. Byte slicing would split
// multi-byte runes, which author and institution names often contain.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

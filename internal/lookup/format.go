// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pure-connector/pkg/types"
)

const (
	identifierWidth = 40
	titleWidth      = 70
)

// WriteTable prints publications as a numbered "#  Identifier  Title" table.
// rank is the number of the first row.
func WriteTable(w io.Writer, pubs []types.Publication, rank int) error {
	if len(pubs) == 0 {
		_, err := fmt.Fprintln(w, "No publications found.")
		return err
	}

	fmt.Fprintf(w, "%-5s  %-*s  %s\n", "#", identifierWidth, "Identifier", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 5+2+identifierWidth+2+titleWidth))
	for i, p := range pubs {
		fmt.Fprintf(w, "%-5d  %-*s  %s\n",
			rank+i, identifierWidth, truncate(p.Identifier, identifierWidth), truncate(p.Name, titleWidth))
	}
	_, err := fmt.Fprintf(w, "\n%d publications\n", len(pubs))
	return err
}

// WriteJSON prints v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteYAML prints v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

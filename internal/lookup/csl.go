// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pure-connector/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate carries date-parts when the date is numeric and the raw text
// otherwise.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts,omitempty"`
	Raw       string  `yaml:"raw,omitempty"`
}

// cslTypes maps publication type labels to CSL item types.
var cslTypes = map[string]string{
	"Journal Article":  "article-journal",
	"Conference Paper": "paper-conference",
	"Book":             "book",
	"Book Chapter":     "chapter",
	"Patent":           "patent",
}

// WriteCSL prints publications as a CSL-YAML list.
func WriteCSL(w io.Writer, pubs []types.Publication) error {
	items := make([]CSLItem, len(pubs))
	for i, p := range pubs {
		items[i] = ToCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return enc.Close()
}

// ToCSLItem converts a canonical publication to a CSL item. Unmapped types
// become "article".
func ToCSLItem(p types.Publication) CSLItem {
	item := CSLItem{
		ID:             p.Identifier,
		Type:           "article",
		Title:          p.Name,
		Abstract:       p.Abstract,
		Issued:         cslDate(p.PublicationDate),
		ContainerTitle: p.Journal,
		Volume:         p.Volume,
		Issue:          p.Issue,
		Page:           p.Pages,
		DOI:            p.DOI,
		URL:            p.URL,
		Keyword:        strings.Join(p.Keywords, ", "),
	}
	if t, ok := cslTypes[p.PublicationType]; ok {
		item.Type = t
	}
	for _, a := range p.Authors {
		if n, ok := cslName(a); ok {
			item.Author = append(item.Author, n)
		}
	}
	return item
}

// cslName uses family/given when a last name exists and the literal field
// for a lone first name.
func cslName(a types.Author) (CSLName, bool) {
	first := strings.TrimSpace(a.FirstName)
	last := strings.TrimSpace(a.LastName)
	switch {
	case last != "":
		return CSLName{Family: last, Given: first}, true
	case first != "":
		return CSLName{Literal: first}, true
	default:
		return CSLName{}, false
	}
}

// cslDate splits YYYY, YYYY-MM or YYYY-MM-DD into date-parts. Other text is
// kept as raw.
func cslDate(s string) *CSLDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.Split(s, "-")
	if len(fields) > 3 {
		return &CSLDate{Raw: s}
	}
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return &CSLDate{Raw: s}
		}
		parts = append(parts, n)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

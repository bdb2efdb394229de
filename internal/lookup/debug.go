// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pure-connector/internal/identifier"
	"github.com/pdiddy/pure-connector/internal/record"
)

// debugSampleSize is the number of records DebugAuthors inspects.
const debugSampleSize = 20

// authorContainers are the top-level attributes Pure has been seen to carry
// author data under.
var authorContainers = []string{
	"contributors",
	"personsAssociations",
	"personAssociations",
	"authors",
	"person",
	"people",
	"persons",
	"externalPersons",
	"personExternalAssociations",
	"externalPersonAssociations",
}

// ContainerInfo describes one candidate author container of a record.
type ContainerInfo struct {
	Name   string          `json:"name"`
	Exists bool            `json:"exists"`
	Kind   string          `json:"kind,omitempty"`
	Count  int             `json:"count,omitempty"`
	Sample json.RawMessage `json:"sample,omitempty"`
}

// RecordAuthorsDebug reports the author data of one record.
type RecordAuthorsDebug struct {
	Index         int             `json:"index"`
	Identifier    string          `json:"identifier,omitempty"`
	Title         string          `json:"title,omitempty"`
	Type          string          `json:"type"`
	Fields        []string        `json:"fields"`
	Containers    []ContainerInfo `json:"containers"`
	RelatedFields []string        `json:"relatedFields"`
	Strategy      string          `json:"strategy,omitempty"`
	AuthorCount   int             `json:"authorCount"`
}

// AuthorsDebugReport is the result of DebugAuthors.
type AuthorsDebugReport struct {
	Term            string               `json:"term"`
	TotalFound      int                  `json:"totalFound"`
	FirstIdentifier string               `json:"firstIdentifier,omitempty"`
	Note            string               `json:"note,omitempty"`
	Records         []RecordAuthorsDebug `json:"records"`
}

// DebugAuthors fetches an unfiltered sample of records and reports which
// author containers the ones mentioning term carry. term is matched
// case-insensitively against the synthesized identifier and the title;
// when nothing matches the first record is reported instead.
func (e *Engine) DebugAuthors(ctx context.Context, term string) (*AuthorsDebugReport, error) {
	records, err := e.search(ctx, SearchRequest{Size: debugSampleSize})
	if err != nil {
		return nil, err
	}

	report := &AuthorsDebugReport{Term: term, TotalFound: len(records), Records: []RecordAuthorsDebug{}}
	if len(records) == 0 {
		report.Note = "no publications found"
		return report, nil
	}
	report.FirstIdentifier, _ = identifier.Synthesize(records[0])

	needle := strings.ToLower(term)
	var matching []*record.RawRecord
	for _, rec := range records {
		id, _ := identifier.Synthesize(rec)
		title, _ := rec.Title.Text()
		if strings.Contains(strings.ToLower(id), needle) || strings.Contains(strings.ToLower(title), needle) {
			matching = append(matching, rec)
		}
	}
	if len(matching) == 0 {
		report.Note = "no record matches the term, showing the first publication instead"
		matching = records[:1]
	}

	for i, rec := range matching {
		report.Records = append(report.Records, debugRecordAuthors(i, rec))
	}
	e.logger.Debug("author debug report",
		zap.String("term", term),
		zap.Int("records", len(report.Records)))
	return report, nil
}

func debugRecordAuthors(index int, rec *record.RawRecord) RecordAuthorsDebug {
	d := RecordAuthorsDebug{
		Index:         index,
		Type:          typeDiscriminator(rec),
		Fields:        sortedKeys(rec.Fields),
		RelatedFields: []string{},
	}
	d.Identifier, _ = identifier.Synthesize(rec)
	d.Title, _ = rec.Title.Text()

	for _, name := range authorContainers {
		d.Containers = append(d.Containers, inspectContainer(name, rec.Fields[name]))
	}
	for _, key := range d.Fields {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "person") || strings.Contains(lower, "author") {
			d.RelatedFields = append(d.RelatedFields, key)
		}
	}

	for _, s := range record.AuthorStrategies {
		if authors, ok := s.Extract(rec); ok {
			d.Strategy = s.Name
			d.AuthorCount = len(authors)
			break
		}
	}
	return d
}

// inspectContainer describes a raw attribute: its JSON kind, its length
// when it is an array, and a sample (the first element of an array).
func inspectContainer(name string, raw json.RawMessage) ContainerInfo {
	info := ContainerInfo{Name: name}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return info
	}
	info.Exists = true
	info.Sample = raw

	switch trimmed[0] {
	case '[':
		info.Kind = "array"
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err == nil {
			info.Count = len(elems)
			info.Sample = nil
			if len(elems) > 0 {
				info.Sample = elems[0]
			}
		}
	case '{':
		info.Kind = "object"
	case '"':
		info.Kind = "string"
	case 't', 'f':
		info.Kind = "boolean"
	default:
		info.Kind = "number"
	}
	return info
}

func typeDiscriminator(rec *record.RawRecord) string {
	var s string
	if raw, ok := rec.Fields["typeDiscriminator"]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
		return s
	}
	return "unknown"
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SearchDebug reports what one search term returned.
type SearchDebug struct {
	Label       string   `json:"label"`
	Term        string   `json:"term"`
	ItemsFound  int      `json:"itemsFound"`
	Identifiers []string `json:"identifiers"`
}

// NotFoundDebugReport is the result of DebugNotFound.
type NotFoundDebugReport struct {
	Identifier string        `json:"identifier"`
	Searches   []SearchDebug `json:"searches"`
	Found      bool          `json:"found"`
	Title      string        `json:"title,omitempty"`
}

// DebugNotFound explains why id does not resolve. It searches for the full
// identifier and for its value part, lists the identifiers synthesized for
// what came back, and finally retries the regular lookup.
func (e *Engine) DebugNotFound(ctx context.Context, id string) (*NotFoundDebugReport, error) {
	report := &NotFoundDebugReport{Identifier: id}
	terms := []struct{ label, term string }{
		{"full identifier", id},
		{"value part", identifier.Parse(id).Value},
	}

	for _, t := range terms {
		records, err := e.search(ctx, SearchRequest{SearchString: t.term, Size: e.searchWindow})
		if err != nil {
			return nil, err
		}
		sd := SearchDebug{Label: t.label, Term: t.term, ItemsFound: len(records), Identifiers: []string{}}
		for _, rec := range records {
			synthesized, ok := identifier.Synthesize(rec)
			if !ok {
				synthesized = "(unresolvable)"
			}
			sd.Identifiers = append(sd.Identifiers, synthesized)
		}
		report.Searches = append(report.Searches, sd)
	}

	pub, err := e.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pub != nil {
		report.Found = true
		report.Title = pub.Title
	}
	return report, nil
}

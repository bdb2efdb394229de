// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"strings"

	"github.com/pdiddy/pure-connector/pkg/types"
)

// authorRoleMarker selects contributors whose role URI denotes an author.
const authorRoleMarker = "/author"

// roleLocale is the locale of the role label copied onto authors.
const roleLocale = "en_GB"

// AuthorStrategy extracts authors from one record shape. Extract reports
// false when the record does not use that shape.
type AuthorStrategy struct {
	Name    string
	Extract func(rec *RawRecord) ([]types.Author, bool)
}

// AuthorStrategies lists the author shapes in the order they are tried.
// Pure records carry at most one of them.
var AuthorStrategies = []AuthorStrategy{
	{Name: "contributors", Extract: contributorAuthors},
	{Name: "personsAssociations", Extract: personAssociationAuthors},
}

// ExtractAuthors returns the authors of the first strategy whose shape the
// record uses, or an empty list.
func ExtractAuthors(rec *RawRecord) []types.Author {
	for _, s := range AuthorStrategies {
		if authors, ok := s.Extract(rec); ok {
			return authors
		}
	}
	return []types.Author{}
}

// contributorAuthors keeps contributors with an author role and a full name.
func contributorAuthors(rec *RawRecord) ([]types.Author, bool) {
	if rec.Contributors == nil {
		return nil, false
	}
	authors := []types.Author{}
	for _, c := range rec.Contributors {
		if !strings.Contains(string(c.Role.URI), authorRoleMarker) {
			continue
		}
		first, last, ok := fullName(c.Name)
		if !ok {
			continue
		}
		authors = append(authors, types.Author{
			FirstName:  first,
			LastName:   last,
			Role:       roleLabel(c.Role),
			Provenance: contributorProvenance(c),
		})
	}
	return authors, true
}

// personAssociationAuthors emits every association whose person has a full
// name. Associations do not say whether the person is internal.
func personAssociationAuthors(rec *RawRecord) ([]types.Author, bool) {
	if rec.PersonsAssociations == nil {
		return nil, false
	}
	authors := []types.Author{}
	for _, a := range rec.PersonsAssociations {
		first, last, ok := fullName(a.Name)
		if !ok {
			continue
		}
		authors = append(authors, types.Author{
			FirstName:  first,
			LastName:   last,
			Role:       roleLabel(a.Role),
			Provenance: types.ProvenanceUnknown,
		})
	}
	return authors, true
}

func contributorProvenance(c Contributor) types.Provenance {
	switch {
	case c.HasPerson:
		return types.ProvenanceInternal
	case c.HasExternal:
		return types.ProvenanceExternal
	default:
		return types.ProvenanceUnknown
	}
}

func fullName(n *PersonName) (string, string, bool) {
	if n == nil || n.FirstName == nil || n.LastName == nil {
		return "", "", false
	}
	return *n.FirstName, *n.LastName, true
}

func roleLabel(role TypeRef) string {
	if label, ok := role.Term.In(roleLocale); ok {
		return label
	}
	return types.DefaultAuthorRole
}

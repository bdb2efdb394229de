// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identifier synthesizes and resolves canonical publication
// identifiers. Pure has no get-by-identifier endpoint, so the connector
// hands out identifiers of its own: the bare value of a preferred-source
// identifier, sourceTag_value for any other source, or uuid_<uuid> as a
// last resort.
package identifier

import (
	"strings"

	"github.com/pdiddy/pure-connector/internal/record"
)

// PreferredSource is the idSource whose values are used without a prefix.
const PreferredSource = "TUGo@tugraz.at"

// UUIDSource prefixes identifiers synthesized from a record's UUID.
const UUIDSource = "uuid"

const separator = "_"

// ID is a parsed canonical identifier. Source is empty when HasSource is
// false.
type ID struct {
	Source    string
	Value     string
	HasSource bool
}

// Parse splits id on its first underscore. An identifier without an
// underscore has no source.
func Parse(id string) ID {
	source, value, ok := strings.Cut(id, separator)
	if !ok {
		return ID{Value: id}
	}
	return ID{Source: source, Value: value, HasSource: true}
}

// String joins the identifier back into its wire form; String is the
// inverse of Parse.
func (id ID) String() string {
	if !id.HasSource {
		return id.Value
	}
	return id.Source + separator + id.Value
}

// Synthesize derives the canonical identifier of rec, reporting false when
// the record carries neither usable identifiers nor a UUID.
func Synthesize(rec *record.RawRecord) (string, bool) {
	for _, entry := range rec.Identifiers {
		if string(entry.IDSource) == PreferredSource && entry.Value != "" {
			return string(entry.Value), true
		}
	}
	for _, entry := range rec.Identifiers {
		if entry.IDSource != "" && entry.Value != "" {
			return string(entry.IDSource) + separator + string(entry.Value), true
		}
	}
	if rec.UUID != "" {
		return UUIDSource + separator + rec.UUID, true
	}
	return "", false
}

// Matches reports whether rec is the record requested by id. The
// synthesized identifier is compared first so a record carrying several
// identifier schemes resolves through its preferred one; the UUID and the
// literal (idSource, value) pair are shortcuts after that.
func Matches(rec *record.RawRecord, id ID) bool {
	if synthesized, ok := Synthesize(rec); ok && synthesized == id.String() {
		return true
	}
	if rec.UUID != "" && rec.UUID == id.Value {
		return true
	}
	if id.HasSource {
		for _, entry := range rec.Identifiers {
			if string(entry.IDSource) == id.Source && string(entry.Value) == id.Value {
				return true
			}
		}
	}
	return false
}

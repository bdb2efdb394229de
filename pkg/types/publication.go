// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the Pure publication connector.
// Publication and Author are the canonical records handed to callers; the
// config types describe how the connector reaches the Pure API.
package types

// Provenance records whether an author belongs to the source institution.
type Provenance string

const (
	ProvenanceInternal Provenance = "internal"
	ProvenanceExternal Provenance = "external"
	ProvenanceUnknown  Provenance = "unknown"
)

// DefaultAuthorRole is used when a record carries no English role label.
const DefaultAuthorRole = "Author"

// UntitledPublication is the display name of a record without a usable title.
const UntitledPublication = "Untitled Publication"

// Author is a normalized contributor of a publication.
type Author struct {
	FirstName  string     `json:"firstName" yaml:"first_name"`
	LastName   string     `json:"lastName" yaml:"last_name"`
	Role       string     `json:"role" yaml:"role"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// Publication is the canonical record built from exactly one Pure research
// output and the identifier used to retrieve it. Optional fields are empty
// strings when the source carries no value.
type Publication struct {
	// Identifier is the canonical identifier: a bare value or sourceTag_value.
	Identifier string `json:"identifier" yaml:"identifier"`

	// UUID is the Pure-internal UUID of the research output.
	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`

	// Title is the extracted title; empty when none could be extracted.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Name is the display name: Title, or UntitledPublication.
	Name string `json:"name" yaml:"name"`

	Abstract        string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI             string `json:"doi,omitempty" yaml:"doi,omitempty"`
	PublicationDate string `json:"publicationDate,omitempty" yaml:"publication_date,omitempty"`
	PublicationType string `json:"publicationType,omitempty" yaml:"publication_type,omitempty"`
	Journal         string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Volume          string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue           string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages           string `json:"pages,omitempty" yaml:"pages,omitempty"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty"`

	// Authors lists authors in source order. Never nil.
	Authors []Author `json:"authors" yaml:"authors"`

	// Keywords lists free keywords in source order, duplicates included. Never nil.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// LocalData holds attributes requested through the local-data mapping.
	LocalData map[string]any `json:"localData,omitempty" yaml:"local_data,omitempty"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record decodes Pure research outputs and normalizes them into
// canonical publications. Pure records have no fixed shape: text may be a
// scalar, a {"value": ...} wrapper or a locale map, and author data lives
// under different attributes depending on the record type. Decoding is
// tolerant; a field that does not fit its expected shape is dropped on its
// own and never fails the record.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotObject is returned when a search result item is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// RawRecord is one research output from a Pure search response. It is never
// mutated after decoding.
type RawRecord struct {
	UUID                string
	Title               TextValue
	Abstract            TextValue
	Identifiers         []Identifier
	Contributors        []Contributor
	PersonsAssociations []PersonAssociation
	KeywordGroups       []KeywordGroup
	JournalAssociation  *JournalAssociation
	ElectronicVersions  []ElectronicVersion
	TypeURI             string
	PublicationDate     PartialDate
	PublicationStatuses []PublicationStatus

	// Fields holds every top-level attribute exactly as Pure sent it.
	Fields map[string]json.RawMessage
}

// Identifier is one entry of a record's identifiers list.
type Identifier struct {
	IDSource Str     `json:"idSource"`
	Value    Str     `json:"value"`
	Type     TypeRef `json:"type"`
}

// TypeRef is a Pure classification reference.
type TypeRef struct {
	URI  Str
	Term TextValue
}

// PersonName is the name block of a contributor or person.
type PersonName struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Contributor is one entry of the contributors list.
type Contributor struct {
	Role        TypeRef
	Name        *PersonName
	HasPerson   bool
	HasExternal bool
}

// PersonAssociation is one entry of the personsAssociations list. Name is
// the name of the referenced person.
type PersonAssociation struct {
	Role TypeRef
	Name *PersonName
}

// KeywordGroup is one entry of keywordGroups.
type KeywordGroup struct {
	Keywords []KeywordContainer
}

// KeywordContainer holds the free keywords of one locale.
type KeywordContainer struct {
	FreeKeywords []string
}

// JournalAssociation links a research output to its journal.
type JournalAssociation struct {
	JournalTitle TextValue
	Volume       TextValue
	Issue        TextValue
	Pages        TextValue
}

// ElectronicVersion is one entry of electronicVersions.
type ElectronicVersion struct {
	HasFile bool
	FileURL string
	Link    string
}

// PublicationStatus is one entry of publicationStatuses.
type PublicationStatus struct {
	Current         bool        `json:"current"`
	PublicationDate PartialDate `json:"publicationDate"`
}

// Str decodes JSON strings and numbers as text; anything else is empty.
type Str string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Str) UnmarshalJSON(data []byte) error {
	text, _ := scalarText(data)
	*s = Str(text)
	return nil
}

// Decode parses one search result item.
func Decode(data []byte) (*RawRecord, error) {
	var r RawRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalJSON decodes the top-level object and then each known attribute
// independently, so a mis-shaped attribute only loses itself.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrNotObject
	}
	if fields == nil {
		return ErrNotObject
	}

	*r = RawRecord{Fields: fields}
	uuid, _ := decodeField[Str](fields["uuid"])
	r.UUID = string(uuid)
	r.Title, _ = decodeField[TextValue](fields["title"])
	r.Abstract, _ = decodeField[TextValue](fields["abstract"])
	r.Identifiers = decodeList[Identifier](fields["identifiers"])
	r.KeywordGroups = decodeList[KeywordGroup](fields["keywordGroups"])
	r.ElectronicVersions = decodeList[ElectronicVersion](fields["electronicVersions"])
	r.PublicationStatuses = decodeList[PublicationStatus](fields["publicationStatuses"])
	r.PublicationDate, _ = decodeField[PartialDate](fields["publicationDate"])

	// A present author container is non-nil even when empty, so it still
	// selects its author shape.
	if present(fields["contributors"]) {
		r.Contributors = decodeList[Contributor](fields["contributors"])
		if r.Contributors == nil {
			r.Contributors = []Contributor{}
		}
	}
	if present(fields["personsAssociations"]) {
		r.PersonsAssociations = decodeList[PersonAssociation](fields["personsAssociations"])
		if r.PersonsAssociations == nil {
			r.PersonsAssociations = []PersonAssociation{}
		}
	}
	if ja, ok := decodeField[JournalAssociation](fields["journalAssociation"]); ok {
		r.JournalAssociation = &ja
	}
	if t, ok := decodeField[TypeRef](fields["type"]); ok {
		r.TypeURI = string(t.URI)
	}
	return nil
}

// Has reports whether the record carries a non-null top-level attribute.
func (r *RawRecord) Has(key string) bool {
	return present(r.Fields[key])
}

// UnmarshalJSON records which person kind a contributor references.
func (c *Contributor) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*c = Contributor{
		HasPerson:   present(fields["person"]),
		HasExternal: present(fields["externalPerson"]),
	}
	c.Role, _ = decodeField[TypeRef](fields["role"])
	if name, ok := decodeField[PersonName](fields["name"]); ok {
		c.Name = &name
	}
	return nil
}

// UnmarshalJSON tolerates a role that is not an object.
func (t *TypeRef) UnmarshalJSON(data []byte) error {
	*t = TypeRef{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	uri, _ := decodeField[Str](fields["uri"])
	t.URI = uri
	t.Term, _ = decodeField[TextValue](fields["term"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *PersonAssociation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*a = PersonAssociation{}
	a.Role, _ = decodeField[TypeRef](fields["role"])
	if person, ok := decodeField[map[string]json.RawMessage](fields["person"]); ok {
		if name, ok := decodeField[PersonName](person["name"]); ok {
			a.Name = &name
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JournalAssociation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*j = JournalAssociation{}
	if journal, ok := decodeField[map[string]json.RawMessage](fields["journal"]); ok {
		j.JournalTitle, _ = decodeField[TextValue](journal["title"])
	}
	j.Volume, _ = decodeField[TextValue](fields["volume"])
	j.Issue, _ = decodeField[TextValue](fields["issue"])
	j.Pages, _ = decodeField[TextValue](fields["pages"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *KeywordGroup) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*g = KeywordGroup{Keywords: decodeList[KeywordContainer](fields["keywords"])}
	return nil
}

// UnmarshalJSON keeps the string entries of freeKeywords.
func (k *KeywordContainer) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*k = KeywordContainer{}
	for _, kw := range decodeList[Str](fields["freeKeywords"]) {
		k.FreeKeywords = append(k.FreeKeywords, string(kw))
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *ElectronicVersion) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ErrNotObject
	}
	*v = ElectronicVersion{HasFile: present(fields["file"])}
	if file, ok := decodeField[struct {
		URL Str `json:"url"`
	}](fields["file"]); ok {
		v.FileURL = string(file.URL)
	}
	link, _ := decodeField[Str](fields["link"])
	v.Link = string(link)
	return nil
}

// present reports whether raw holds a non-null JSON value.
func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// decodeField decodes raw into T, reporting false when raw is absent, null
// or does not fit T.
func decodeField[T any](raw json.RawMessage) (T, bool) {
	var v T
	if !present(raw) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// decodeList decodes a JSON array element by element, skipping elements
// that do not fit T. A non-array yields nil.
func decodeList[T any](raw json.RawMessage) []T {
	var elems []json.RawMessage
	if !present(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		if v, ok := decodeField[T](e); ok {
			out = append(out, v)
		}
	}
	return out
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DOITypeURI classifies an identifiers entry as a DOI.
const DOITypeURI = "/dk/atira/pure/researchoutput/identifiers/doi"

const researchOutputTypeBase = "/dk/atira/pure/researchoutput/researchoutputtypes/researchoutput/"

// OtherPublicationType labels research output types missing from the table.
const OtherPublicationType = "Other"

var publicationTypes = map[string]string{
	researchOutputTypeBase + "article":         "Journal Article",
	researchOutputTypeBase + "conferencepaper": "Conference Paper",
	researchOutputTypeBase + "book":            "Book",
	researchOutputTypeBase + "chapter":         "Book Chapter",
	researchOutputTypeBase + "patent":          "Patent",
}

// ExtractLocalizedText returns the canonical text of container[key]: a
// scalar as-is, the "value" of a wrapper object, or the de_DE, en_GB, en_US
// or first entry of a locale map. It reports false when the key is absent
// or carries no text.
func ExtractLocalizedText(container map[string]json.RawMessage, key string) (string, bool) {
	tv, ok := decodeField[TextValue](container[key])
	if !ok {
		return "", false
	}
	return tv.Text()
}

// ExtractDOI returns the value of the first identifier typed as a DOI.
func ExtractDOI(rec *RawRecord) (string, bool) {
	for _, id := range rec.Identifiers {
		if string(id.Type.URI) == DOITypeURI {
			return string(id.Value), true
		}
	}
	return "", false
}

// ExtractKeywords flattens every free keyword of every keyword group in
// source order. Duplicates are kept.
func ExtractKeywords(rec *RawRecord) []string {
	keywords := []string{}
	for _, group := range rec.KeywordGroups {
		for _, kw := range group.Keywords {
			keywords = append(keywords, kw.FreeKeywords...)
		}
	}
	return keywords
}

// ExtractURL returns the file URL of the first electronic version that has
// a file. Later versions are not consulted even when that file has no URL.
func ExtractURL(rec *RawRecord) (string, bool) {
	for _, v := range rec.ElectronicVersions {
		if v.HasFile {
			return v.FileURL, v.FileURL != ""
		}
	}
	return "", false
}

// MapPublicationType maps a research output type URI to a label.
func MapPublicationType(typeURI string) string {
	if label, ok := publicationTypes[typeURI]; ok {
		return label
	}
	return OtherPublicationType
}

// Journal holds the journal metadata of a research output.
type Journal struct {
	Title  string
	Volume string
	Issue  string
	Pages  string
}

// ExtractJournal reads journalAssociation. Volume, issue and pages fall back
// to the top-level volume, journalNumber and pages attributes that Pure uses
// for contributions to journals.
func ExtractJournal(rec *RawRecord) Journal {
	var j Journal
	if ja := rec.JournalAssociation; ja != nil {
		j.Title, _ = ja.JournalTitle.Text()
		j.Volume, _ = ja.Volume.Text()
		j.Issue, _ = ja.Issue.Text()
		j.Pages, _ = ja.Pages.Text()
	}
	if j.Volume == "" {
		j.Volume, _ = ExtractLocalizedText(rec.Fields, "volume")
	}
	if j.Issue == "" {
		j.Issue, _ = ExtractLocalizedText(rec.Fields, "journalNumber")
	}
	if j.Pages == "" {
		j.Pages, _ = ExtractLocalizedText(rec.Fields, "pages")
	}
	return j
}

// PartialDate is a Pure date that may lack month or day. Pure sends either
// {"year": 2021, "month": 3, "day": 9} or a preformatted string.
type PartialDate struct {
	Year  int
	Month int
	Day   int
	Text  string
}

// UnmarshalJSON accepts both date shapes; anything else is an empty date.
func (d *PartialDate) UnmarshalJSON(data []byte) error {
	*d = PartialDate{}
	if s, ok := scalarText(data); ok {
		d.Text = s
		return nil
	}
	var parts struct {
		Year  Str `json:"year"`
		Month Str `json:"month"`
		Day   Str `json:"day"`
	}
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil
	}
	d.Year, _ = strconv.Atoi(string(parts.Year))
	d.Month, _ = strconv.Atoi(string(parts.Month))
	d.Day, _ = strconv.Atoi(string(parts.Day))
	return nil
}

// IsZero reports whether the date carries nothing.
func (d PartialDate) IsZero() bool {
	return d.Text == "" && d.Year == 0
}

// String formats the date as YYYY, YYYY-MM or YYYY-MM-DD.
func (d PartialDate) String() string {
	switch {
	case d.Text != "":
		return d.Text
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// ExtractPublicationDate prefers the top-level publicationDate, then the
// current publication status, then the first status that has a date.
func ExtractPublicationDate(rec *RawRecord) (string, bool) {
	if !rec.PublicationDate.IsZero() {
		return rec.PublicationDate.String(), true
	}
	for _, st := range rec.PublicationStatuses {
		if st.Current && !st.PublicationDate.IsZero() {
			return st.PublicationDate.String(), true
		}
	}
	for _, st := range rec.PublicationStatuses {
		if !st.PublicationDate.IsZero() {
			return st.PublicationDate.String(), true
		}
	}
	return "", false
}

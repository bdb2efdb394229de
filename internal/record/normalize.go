// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import "github.com/pdiddy/pure-connector/pkg/types"

// Normalize builds the canonical publication for rec, retrieved under
// identifier. It never fails; attributes Pure did not send stay empty.
func Normalize(rec *RawRecord, identifier string) types.Publication {
	pub := types.Publication{
		Identifier: identifier,
		UUID:       rec.UUID,
		Authors:    ExtractAuthors(rec),
		Keywords:   ExtractKeywords(rec),
	}

	pub.Title, _ = rec.Title.Text()
	pub.Name = pub.Title
	if pub.Name == "" {
		pub.Name = types.UntitledPublication
	}
	pub.Abstract, _ = rec.Abstract.Text()
	pub.DOI, _ = ExtractDOI(rec)
	pub.PublicationDate, _ = ExtractPublicationDate(rec)
	if rec.TypeURI != "" {
		pub.PublicationType = MapPublicationType(rec.TypeURI)
	}

	j := ExtractJournal(rec)
	pub.Journal, pub.Volume, pub.Issue, pub.Pages = j.Title, j.Volume, j.Issue, j.Pages
	pub.URL, _ = ExtractURL(rec)
	return pub
}

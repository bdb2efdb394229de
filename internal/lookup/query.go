// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import "fmt"

// DefaultFields are the research output attributes the normalizer reads.
var DefaultFields = []string{
	"uuid",
	"title",
	"abstract",
	"identifiers",
	"contributors",
	"personsAssociations",
	"keywordGroups",
	"journalAssociation",
	"electronicVersions",
	"type",
	"publicationDate",
	"publicationStatuses",
	"volume",
	"journalNumber",
	"pages",
}

// SearchRequest is the body of POST research-outputs/search.
type SearchRequest struct {
	SearchString string   `json:"searchString"`
	Size         int      `json:"size"`
	Offset       int      `json:"offset"`
	Fields       []string `json:"fields,omitempty"`
}

// BuildSearchRequest turns a 1-based page into a size/offset window. page
// and pageSize are clamped to at least 1 and pageSize is capped at
// maxPageSize.
func BuildSearchRequest(term string, page, pageSize, maxPageSize int) (SearchRequest, error) {
	if maxPageSize < 1 {
		return SearchRequest{}, fmt.Errorf("%w: max page size must be positive, got %d", ErrInvalidArgument, maxPageSize)
	}
	page = max(page, 1)
	size := min(max(pageSize, 1), maxPageSize)
	return SearchRequest{
		SearchString: term,
		Size:         size,
		Offset:       (page - 1) * size,
	}, nil
}

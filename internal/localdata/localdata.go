// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package localdata exposes configured attributes of the raw Pure record as
// local data on canonical publications. Each mapping names a dotted path
// into the record, such as "journalAssociation.journal.title" or
// "keywordGroups.0.logicalName", where numeric segments index arrays.
package localdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/pure-connector/internal/record"
	"github.com/pdiddy/pure-connector/pkg/types"
)

// ErrUnknownAttribute is returned when a caller requests a local-data
// attribute no mapping defines.
var ErrUnknownAttribute = errors.New("unknown local data attribute")

// Validate reports mappings without a name or path and duplicate names.
func Validate(mappings []types.LocalDataMapping) error {
	var errs []error
	seen := make(map[string]bool, len(mappings))
	for i, m := range mappings {
		if m.LocalDataAttribute == "" {
			errs = append(errs, fmt.Errorf("local_data[%d]: local_data_attribute is required", i))
		}
		if m.SourceAttribute == "" {
			errs = append(errs, fmt.Errorf("local_data[%d]: pure_attribute is required", i))
		}
		if m.LocalDataAttribute != "" && seen[m.LocalDataAttribute] {
			errs = append(errs, fmt.Errorf("local_data[%d]: duplicate attribute %q", i, m.LocalDataAttribute))
		}
		seen[m.LocalDataAttribute] = true
	}
	return errors.Join(errs...)
}

// Apply returns the requested attributes of rec. A path that does not
// resolve yields the mapping's default value. Requesting an attribute that
// no mapping defines is an error.
func Apply(mappings []types.LocalDataMapping, rec *record.RawRecord, requested []string) (map[string]any, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	byName := make(map[string]types.LocalDataMapping, len(mappings))
	for _, m := range mappings {
		byName[m.LocalDataAttribute] = m
	}

	out := make(map[string]any, len(requested))
	for _, name := range requested {
		m, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
		if v, ok := Lookup(rec, m.SourceAttribute); ok {
			out[name] = v
		} else {
			out[name] = m.DefaultValue
		}
	}
	return out, nil
}

// ApplyTo sets pub.LocalData to the requested attributes of rec.
func ApplyTo(pub *types.Publication, mappings []types.LocalDataMapping, rec *record.RawRecord, requested []string) error {
	data, err := Apply(mappings, rec, requested)
	if err != nil {
		return err
	}
	pub.LocalData = data
	return nil
}

// Lookup resolves a dotted path in rec. It reports false when a segment is
// missing, an index is out of range, or the value is null.
func Lookup(rec *record.RawRecord, path string) (any, bool) {
	segments := strings.Split(path, ".")
	raw, ok := rec.Fields[segments[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		raw, ok = child(raw, seg)
		if !ok {
			return nil, false
		}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// child steps into an object by key or into an array by index.
func child(raw json.RawMessage, seg string) (json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}
	switch raw[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		v, ok := obj[seg]
		return v, ok
	case '[':
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return nil, false
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || idx >= len(arr) {
			return nil, false
		}
		return arr[idx], true
	default:
		return nil, false
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Locale preference for localized Pure text. Anything else falls back to
// the first entry in source order.
var localePreference = []string{"de_DE", "en_GB", "en_US"}

// TextKind tags the shape a TextValue was decoded from.
type TextKind int

const (
	TextAbsent TextKind = iota
	TextScalar
	TextLocalized
)

// LocalizedText is one locale entry of a localized Pure text.
type LocalizedText struct {
	Locale string
	Text   string
}

// TextValue is a Pure text attribute decoded once at the boundary. Pure
// sends plain scalars, {"value": ...} wrappers and locale maps such as
// {"de_DE": ..., "en_GB": ...}; wrappers collapse to TextScalar.
type TextValue struct {
	Kind    TextKind
	Scalar  string
	Locales []LocalizedText
}

// Scalar returns a TextScalar value.
func Scalar(s string) TextValue {
	return TextValue{Kind: TextScalar, Scalar: s}
}

// Localized returns a TextLocalized value with entries in the given order.
func Localized(entries ...LocalizedText) TextValue {
	return TextValue{Kind: TextLocalized, Locales: entries}
}

// Text returns the canonical text: the scalar, or the preferred locale
// (de_DE, en_GB, en_US), or the first locale entry in source order.
func (t TextValue) Text() (string, bool) {
	switch t.Kind {
	case TextScalar:
		return t.Scalar, true
	case TextLocalized:
		for _, loc := range localePreference {
			if s, ok := t.In(loc); ok {
				return s, true
			}
		}
		if len(t.Locales) > 0 {
			return t.Locales[0].Text, true
		}
	}
	return "", false
}

// In returns the text for one locale of a localized value. Scalars carry no
// locale and never match.
func (t TextValue) In(locale string) (string, bool) {
	if t.Kind != TextLocalized {
		return "", false
	}
	for _, e := range t.Locales {
		if e.Locale == locale {
			return e.Text, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes any of the Pure text shapes. Arrays and other
// values that cannot carry text decode to TextAbsent without error.
func (t *TextValue) UnmarshalJSON(data []byte) error {
	*t = TextValue{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '{':
		entries, err := decodeOrderedObject(data)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.key == "value" {
				if s, ok := scalarText(e.raw); ok {
					*t = Scalar(s)
					return nil
				}
			}
		}
		var locales []LocalizedText
		for _, e := range entries {
			if s, ok := scalarText(e.raw); ok {
				locales = append(locales, LocalizedText{Locale: e.key, Text: s})
			}
		}
		if len(locales) > 0 {
			*t = Localized(locales...)
		}
		return nil
	default:
		if s, ok := scalarText(data); ok {
			*t = Scalar(s)
		}
		return nil
	}
}

// scalarText renders a JSON string, number or boolean as text.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case 'n', '{', '[':
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
}

type objectEntry struct {
	key string
	raw json.RawMessage
}

// decodeOrderedObject decodes a JSON object keeping its key order, which
// encoding/json maps discard.
func decodeOrderedObject(data []byte) ([]objectEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var entries []objectEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		entries = append(entries, objectEntry{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

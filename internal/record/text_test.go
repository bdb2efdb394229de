// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextValueUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TextValue
	}{
		{"string", `"Graphene"`, Scalar("Graphene")},
		{"number", `42`, Scalar("42")},
		{"boolean", `true`, Scalar("true")},
		{"value wrapper", `{"value": "Wrapped", "formatted": false}`, Scalar("Wrapped")},
		{"numeric value wrapper", `{"value": 7}`, Scalar("7")},
		{"locale map keeps source order", `{"fr_FR": "C", "en_US": "B"}`,
			Localized(LocalizedText{"fr_FR", "C"}, LocalizedText{"en_US", "B"})},
		{"null value wrapper falls back to locales", `{"value": null, "de_DE": "A"}`,
			Localized(LocalizedText{"de_DE", "A"})},
		{"locale map drops non-scalar entries", `{"de_DE": {"x": 1}, "en_GB": "B"}`,
			Localized(LocalizedText{"en_GB", "B"})},
		{"empty object", `{}`, TextValue{}},
		{"array", `["a", "b"]`, TextValue{}},
		{"null", `null`, TextValue{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TextValue
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextValueText(t *testing.T) {
	tests := []struct {
		name   string
		in     TextValue
		want   string
		wantOK bool
	}{
		{"absent", TextValue{}, "", false},
		{"scalar", Scalar("x"), "x", true},
		{"empty scalar", Scalar(""), "", true},
		{"german first", Localized(LocalizedText{"en_GB", "B"}, LocalizedText{"de_DE", "A"}), "A", true},
		{"british before american", Localized(LocalizedText{"en_US", "U"}, LocalizedText{"en_GB", "B"}), "B", true},
		{"american", Localized(LocalizedText{"fr_FR", "C"}, LocalizedText{"en_US", "U"}), "U", true},
		{"first entry fallback", Localized(LocalizedText{"fr_FR", "C"}, LocalizedText{"it_IT", "I"}), "C", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Text()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextValueIn(t *testing.T) {
	v := Localized(LocalizedText{"en_GB", "Author"}, LocalizedText{"de_DE", "Autor"})
	s, ok := v.In("de_DE")
	assert.True(t, ok)
	assert.Equal(t, "Autor", s)

	_, ok = v.In("en_US")
	assert.False(t, ok)

	_, ok = Scalar("Author").In("en_GB")
	assert.False(t, ok)
}

func TestExtractLocalizedText(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"german preferred", `{"title": {"de_DE": "A", "en_GB": "B"}}`, "A", true},
		{"british only", `{"title": {"en_GB": "B"}}`, "B", true},
		{"sole other locale", `{"title": {"fr_FR": "C"}}`, "C", true},
		{"scalar as-is", `{"title": "Plain"}`, "Plain", true},
		{"value wrapper", `{"title": {"value": "Wrapped"}}`, "Wrapped", true},
		{"absent", `{"abstract": "x"}`, "", false},
		{"null", `{"title": null}`, "", false},
		{"array", `{"title": [1, 2]}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var container map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &container))
			got, ok := ExtractLocalizedText(container, "title")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

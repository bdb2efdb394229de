// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"time"
)

// HTTPConfig holds shared HTTP settings for the Pure API transport.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pure-connector/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

const (
	// DefaultMaxPageSize caps the page size of listings.
	DefaultMaxPageSize = 1000

	// DefaultSearchWindow is the number of search results scanned by a
	// get-by-identifier lookup.
	DefaultSearchWindow = 10
)

// PureConfig holds the settings for reaching a Pure instance.
type PureConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIURL is the base URL of the Pure API (e.g. "https://pure-test.tugraz.at/ws/api/").
	APIURL string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`

	// APIKey is sent in the api-key header with every request.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxPageSize caps the page size of listings (default 1000).
	MaxPageSize int `json:"max_page_size" yaml:"max_page_size" mapstructure:"max_page_size"`

	// SearchWindow is the number of results scanned by get-by-identifier (default 10).
	SearchWindow int `json:"search_window" yaml:"search_window" mapstructure:"search_window"`

	// Fields restricts the attributes Pure returns per research output.
	// Empty means the attributes the normalizer reads.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
}

// Validate reports configuration that makes every request fail.
func (c PureConfig) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("pure.api_url is required"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("pure.api_key is required"))
	}
	return errors.Join(errs...)
}

// LocalDataMapping maps a path in the raw Pure record to a local-data
// attribute exposed on Publication.LocalData.
type LocalDataMapping struct {
	// LocalDataAttribute is the attribute name callers request.
	LocalDataAttribute string `json:"local_data_attribute" yaml:"local_data_attribute" mapstructure:"local_data_attribute"`

	// SourceAttribute is a dotted path into the raw record
	// (e.g. "journalAssociation.journal.title", "keywordGroups.0.logicalName").
	SourceAttribute string `json:"pure_attribute" yaml:"pure_attribute" mapstructure:"pure_attribute"`

	// DefaultValue is returned when the path is absent.
	DefaultValue any `json:"default_value,omitempty" yaml:"default_value,omitempty" mapstructure:"default_value"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultPrefix is the archive path prefix under which intent entries live.
const DefaultPrefix = "intents/"

// OutputFormat selects how the report is written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// Valid reports whether f names a supported output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatText, FormatYAML, FormatJSON:
		return true
	}
	return false
}

// ReportConfig holds settings for converting one export archive.
type ReportConfig struct {
	// Prefix selects the archive entries to convert (default "intents/").
	Prefix string `json:"prefix" yaml:"prefix"`

	// Format selects the output format: text, yaml, or json.
	Format OutputFormat `json:"format" yaml:"format"`

	// MergeUserSays attaches <name>_usersays_<lang>.json entries to the
	// intent read from <name>.json instead of reporting them separately.
	MergeUserSays bool `json:"merge_usersays" yaml:"merge_usersays"`

	// SkipMalformed logs and skips entries that cannot be decoded or carry
	// a user phrase fragment without text. When false they abort the run.
	SkipMalformed bool `json:"skip_malformed" yaml:"skip_malformed"`
}

// KnowledgeBaseConfig holds settings for the intent index.
type KnowledgeBaseConfig struct {
	// Dir is the directory holding the index database.
	Dir string `json:"kb_dir" yaml:"kb_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/intent-report/pkg/types"
)

func TestText(t *testing.T) {
	tests := []struct {
		name    string
		results []types.Result
		want    string
	}{
		{
			name:    "no results prints nothing",
			results: nil,
			want:    "",
		},
		{
			name: "greeting intent",
			results: []types.Result{{
				Name:         "intents/greet.json",
				UserSays:     []string{"hi", "hello"},
				Answers:      []types.Answer{types.PlainAnswer("Hi there!")},
				QuickAnswers: []string{},
			}},
			want: "# Intent: intents/greet.json\n" +
				"## User Says:\n" +
				" - hi\n" +
				" - hello\n" +
				"## Answers\n" +
				" 1. Hi there!\n",
		},
		{
			name: "alternatives drop empty strings and empty lists",
			results: []types.Result{{
				Name: "intents/weather.json",
				Answers: []types.Answer{
					types.AlternativesAnswer{"Sunny", ""},
					types.AlternativesAnswer{},
					types.PlainAnswer("Anything else?"),
				},
			}},
			want: "# Intent: intents/weather.json\n" +
				"## User Says:\n" +
				"## Answers\n" +
				" 1. *Alternatives:*\n" +
				"     - Sunny\n" +
				" 1. Anything else?\n",
		},
		{
			name: "quick answers section and intent order",
			results: []types.Result{
				{
					Name:         "intents/a.json",
					UserSays:     []string{"menu"},
					Answers:      []types.Answer{types.PlainAnswer("Pick one")},
					QuickAnswers: []string{"Pizza", "Pasta"},
				},
				{
					Name: "intents/b.json",
				},
			},
			want: "# Intent: intents/a.json\n" +
				"## User Says:\n" +
				" - menu\n" +
				"## Answers\n" +
				" 1. Pick one\n" +
				"## Possible User Answers\n" +
				" - Pizza\n" +
				" - Pasta\n" +
				"# Intent: intents/b.json\n" +
				"## User Says:\n" +
				"## Answers\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Text(&buf, tt.results))
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("Text() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// failWriter fails every write.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestText_WriteError(t *testing.T) {
	err := Text(failWriter{}, []types.Result{{Name: "intents/x.json"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intents/x.json")
}

var structuredResults = []types.Result{{
	Name:     "intents/greet.json",
	UserSays: []string{"hi"},
	Answers: []types.Answer{
		types.PlainAnswer("Hello <friend>"),
		types.AlternativesAnswer{"Hey", "Yo"},
	},
	QuickAnswers: []string{"Help"},
}}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, structuredResults))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "intents/greet.json", got[0]["name"])
	assert.Equal(t, []any{"hi"}, got[0]["user_says"])
	assert.Equal(t, []any{"Hello <friend>", []any{"Hey", "Yo"}}, got[0]["answers"])
	assert.Equal(t, []any{"Help"}, got[0]["quick_answers"])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, structuredResults))
	assert.Contains(t, buf.String(), `"Hello <friend>"`)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, []any{"Hello <friend>", []any{"Hey", "Yo"}}, got[0]["answers"])
}

func TestWrite(t *testing.T) {
	tests := []struct {
		format  types.OutputFormat
		prefix  string
		wantErr bool
	}{
		{format: types.FormatText, prefix: "# Intent: intents/greet.json"},
		{format: "", prefix: "# Intent: intents/greet.json"},
		{format: types.FormatYAML, prefix: "- name: intents/greet.json"},
		{format: types.FormatJSON, prefix: "[\n  {\n    \"name\""},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, structuredResults)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix), "output %q", buf.String())
		})
	}
}

func TestStructuredEmpty(t *testing.T) {
	var y, j bytes.Buffer
	require.NoError(t, YAML(&y, nil))
	require.NoError(t, JSON(&j, nil))
	assert.Equal(t, "[]\n", y.String())
	assert.Equal(t, "[]\n", j.String())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/intent-report/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.IntentRecord
		wantErr bool
	}{
		{
			name: "intent object with speech string, list, and title",
			input: `{
				"name": "greet",
				"responses": [{"messages": [
					{"type": 0, "speech": "Hi there!"},
					{"type": 0, "speech": ["Hello", "Hey"]},
					{"type": 2, "title": "Pick one", "replies": ["Yes", "No"]}
				]}],
				"userSays": [{"data": [{"text": "hi "}, {"text": "bot", "alias": "name", "meta": "@sys.any"}]}]
			}`,
			want: types.IntentRecord{
				Responses: []types.Response{{Messages: []types.Message{
					{Speech: types.PlainSpeech("Hi there!")},
					{Speech: types.ListSpeech("Hello", "Hey")},
					{Title: strPtr("Pick one"), Replies: []string{"Yes", "No"}},
				}}},
				UserSays: []types.UserSay{{Data: []types.Fragment{
					{Text: strPtr("hi ")},
					{Text: strPtr("bot")},
				}}},
			},
		},
		{
			name:  "top-level array is a userSays list",
			input: ` [{"id": "a1", "data": [{"text": "hello"}], "count": 0}]`,
			want: types.IntentRecord{
				UserSays: []types.UserSay{{Data: []types.Fragment{{Text: strPtr("hello")}}}},
			},
		},
		{
			name:  "null speech is absent",
			input: `{"responses": [{"messages": [{"speech": null}]}]}`,
			want: types.IntentRecord{
				Responses: []types.Response{{Messages: []types.Message{{}}}},
			},
		},
		{
			name: "null replies and alternatives are dropped",
			input: `{"responses": [{"messages": [
				{"speech": ["a", null, "b"]},
				{"title": "Pick", "replies": ["x", null, "y"]},
				{"title": "None", "replies": null}
			]}]}`,
			want: types.IntentRecord{
				Responses: []types.Response{{Messages: []types.Message{
					{Speech: types.ListSpeech("a", "b")},
					{Title: strPtr("Pick"), Replies: []string{"x", "y"}},
					{Title: strPtr("None")},
				}}},
			},
		},
		{
			name:    "replies of the wrong type",
			input:   `{"responses": [{"messages": [{"replies": [1]}]}]}`,
			wantErr: true,
		},
		{
			name:  "missing top-level fields decode as empty",
			input: `{"name": "empty"}`,
			want:  types.IntentRecord{},
		},
		{
			name:    "malformed json",
			input:   `{"responses": [`,
			wantErr: true,
		},
		{
			name:    "speech of the wrong type",
			input:   `{"responses": [{"messages": [{"speech": 42}]}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_NullEntry(t *testing.T) {
	for _, input := range []string{"null", " null\n"} {
		_, err := Decode([]byte(input))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNullRecord)
	}
}

func TestAnswers(t *testing.T) {
	tests := []struct {
		name      string
		rec       types.IntentRecord
		wantAns   []types.Answer
		wantQuick []string
	}{
		{
			name:      "no responses",
			rec:       types.IntentRecord{},
			wantAns:   []types.Answer{},
			wantQuick: []string{},
		},
		{
			name: "speech wins over title",
			rec: types.IntentRecord{Responses: []types.Response{{Messages: []types.Message{
				{Speech: types.PlainSpeech("spoken"), Title: strPtr("ignored")},
			}}}},
			wantAns:   []types.Answer{types.PlainAnswer("spoken")},
			wantQuick: []string{},
		},
		{
			name: "order preserved across responses and messages",
			rec: types.IntentRecord{Responses: []types.Response{
				{Messages: []types.Message{
					{Speech: types.PlainSpeech("one")},
					{Speech: types.ListSpeech("two-a", "", "two-b")},
				}},
				{Messages: []types.Message{
					{Title: strPtr("three")},
					{Speech: types.ListSpeech()},
				}},
			}},
			wantAns: []types.Answer{
				types.PlainAnswer("one"),
				types.AlternativesAnswer{"two-a", "", "two-b"},
				types.PlainAnswer("three"),
				types.AlternativesAnswer{},
			},
			wantQuick: []string{},
		},
		{
			name: "messages without speech or title contribute nothing",
			rec: types.IntentRecord{Responses: []types.Response{{Messages: []types.Message{
				{}, {},
			}}}},
			wantAns:   []types.Answer{},
			wantQuick: []string{},
		},
		{
			name: "replies collected from every message",
			rec: types.IntentRecord{Responses: []types.Response{
				{Messages: []types.Message{
					{Replies: []string{"a", "b"}},
					{Title: strPtr("Choose"), Replies: []string{"c"}},
				}},
				{Messages: []types.Message{
					{Speech: types.PlainSpeech("x"), Replies: []string{"d"}},
				}},
			}},
			wantAns:   []types.Answer{types.PlainAnswer("Choose"), types.PlainAnswer("x")},
			wantQuick: []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans, quick := Answers(tt.rec)
			assert.Equal(t, tt.wantAns, ans)
			assert.Equal(t, tt.wantQuick, quick)
		})
	}
}

func TestUserSays(t *testing.T) {
	rec := types.IntentRecord{UserSays: []types.UserSay{
		{Data: []types.Fragment{{Text: strPtr("hi")}, {Text: strPtr("hello")}}},
		{Data: []types.Fragment{{Text: strPtr("")}}},
		{Data: nil},
	}}

	got, err := UserSays(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "hello", ""}, got)
}

func TestUserSays_MissingText(t *testing.T) {
	rec := types.IntentRecord{UserSays: []types.UserSay{
		{Data: []types.Fragment{{Text: strPtr("ok")}}},
		{Data: []types.Fragment{{Text: strPtr("fine")}, {}}},
	}}

	_, err := UserSays(rec)
	require.ErrorIs(t, err, ErrMissingText)
	assert.Contains(t, err.Error(), "userSays[1].data[1]")
}

func TestIntent(t *testing.T) {
	rec, err := Decode([]byte(`{
		"responses": [{"messages": [{"speech": "Hi there!"}]}],
		"userSays": [{"data": [{"text": "hi"}, {"text": "hello"}]}]
	}`))
	require.NoError(t, err)

	got, err := Intent("intents/greet.json", rec)
	require.NoError(t, err)
	assert.Equal(t, types.Result{
		Name:         "intents/greet.json",
		UserSays:     []string{"hi", "hello"},
		Answers:      []types.Answer{types.PlainAnswer("Hi there!")},
		QuickAnswers: []string{},
	}, got)
}

func TestIntent_PropagatesMissingText(t *testing.T) {
	rec, err := Decode([]byte(`{"userSays": [{"data": [{"alias": "x"}]}]}`))
	require.NoError(t, err)

	_, err = Intent("intents/bad.json", rec)
	assert.ErrorIs(t, err, ErrMissingText)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls user utterances, bot answers, and quick replies out
// of decoded intent records.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/intent-report/pkg/types"
)

// ErrMissingText is returned when a user phrase fragment carries no text.
// Answers tolerate missing fields; user phrases do not, because a fragment
// without text means the export itself is damaged.
var ErrMissingText = errors.New("user phrase fragment has no text")

// ErrNullRecord is returned when an intents/ entry is the JSON literal null.
var ErrNullRecord = errors.New("intent entry is null")

// Decode parses the JSON content of an intents/ entry. An object is decoded
// as a full intent; a top-level array, as written to the per-language
// usersays files, is decoded as the intent's userSays list.
func Decode(data []byte) (types.IntentRecord, error) {
	var rec types.IntentRecord

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return types.IntentRecord{}, fmt.Errorf("decoding intent: %w", ErrNullRecord)
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rec.UserSays); err != nil {
			return types.IntentRecord{}, fmt.Errorf("decoding userSays list: %w", err)
		}
		return rec, nil
	}

	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return types.IntentRecord{}, fmt.Errorf("decoding intent: %w", err)
	}
	return rec, nil
}

// Answers returns the bot answers and quick replies of rec, in source order.
//
// A message contributes its speech if present, otherwise its title, otherwise
// nothing. Independently, every message contributes all of its replies to
// quick.
func Answers(rec types.IntentRecord) (answers []types.Answer, quick []string) {
	answers = []types.Answer{}
	quick = []string{}

	for _, resp := range rec.Responses {
		for _, msg := range resp.Messages {
			switch {
			case msg.Speech != nil:
				answers = append(answers, msg.Speech.Answer())
			case msg.Title != nil:
				answers = append(answers, types.PlainAnswer(*msg.Title))
			}
			quick = append(quick, msg.Replies...)
		}
	}
	return answers, quick
}

// UserSays returns the text of every user phrase fragment of rec, in source
// order. It fails with ErrMissingText on the first fragment without text.
func UserSays(rec types.IntentRecord) ([]string, error) {
	texts := []string{}
	for i, say := range rec.UserSays {
		for j, frag := range say.Data {
			if frag.Text == nil {
				return nil, fmt.Errorf("userSays[%d].data[%d]: %w", i, j, ErrMissingText)
			}
			texts = append(texts, *frag.Text)
		}
	}
	return texts, nil
}

// Intent builds the extraction result for the entry named name.
func Intent(name string, rec types.IntentRecord) (types.Result, error) {
	userSays, err := UserSays(rec)
	if err != nil {
		return types.Result{}, err
	}
	answers, quick := Answers(rec)
	return types.Result{
		Name:         name,
		UserSays:     userSays,
		Answers:      answers,
		QuickAnswers: quick,
	}, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IntentRecord is the decoded content of one intents/ entry of an API.AI
// (Dialogflow v1) export. Only the fields the report needs are modelled.
type IntentRecord struct {
	// Responses holds the bot response groups in source order.
	Responses []Response `json:"responses" yaml:"responses"`

	// UserSays holds the sample user phrase groups in source order.
	UserSays []UserSay `json:"userSays" yaml:"userSays"`
}

// Response is one response group of an intent.
type Response struct {
	Messages []Message `json:"messages" yaml:"messages"`
}

// Message is a single bot message. Every field is optional; a nil pointer or
// nil slice means the export did not carry it.
type Message struct {
	// Speech is the spoken text, either one string or a list of alternatives.
	Speech *Speech `json:"speech,omitempty" yaml:"speech,omitempty"`

	// Title is used by card and quick-reply messages in place of speech.
	Title *string `json:"title,omitempty" yaml:"title,omitempty"`

	// Replies lists the quick-reply suggestions offered to the user.
	Replies []string `json:"replies,omitempty" yaml:"replies,omitempty"`
}

// UnmarshalJSON decodes a message, dropping null entries from replies.
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	aux := struct {
		*plain
		Replies json.RawMessage `json:"replies"`
	}{plain: (*plain)(m)}

	*m = Message{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Replies) == 0 || bytes.Equal(aux.Replies, []byte("null")) {
		return nil
	}
	replies, err := unmarshalStrings(aux.Replies)
	if err != nil {
		return fmt.Errorf("decoding replies: %w", err)
	}
	m.Replies = replies
	return nil
}

// UserSay is one sample user phrase, split into data fragments.
type UserSay struct {
	Data []Fragment `json:"data" yaml:"data"`
}

// Fragment is a piece of a user phrase. Annotated fragments also carry an
// entity alias and meta, which the report ignores.
type Fragment struct {
	Text *string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Speech holds a message's speech value. Exports write it either as a plain
// string or as a list of equivalent alternatives; IsList records which.
type Speech struct {
	Text         string
	Alternatives []string
	IsList       bool
}

// PlainSpeech returns a Speech holding a single string.
func PlainSpeech(s string) *Speech {
	return &Speech{Text: s}
}

// ListSpeech returns a Speech holding a list of alternatives.
func ListSpeech(alts ...string) *Speech {
	if alts == nil {
		alts = []string{}
	}
	return &Speech{Alternatives: alts, IsList: true}
}

// UnmarshalJSON accepts a JSON string or an array of strings.
func (s *Speech) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		alts, err := unmarshalStrings(trimmed)
		if err != nil {
			return fmt.Errorf("decoding speech alternatives: %w", err)
		}
		*s = Speech{Alternatives: alts, IsList: true}
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return fmt.Errorf("speech must be a string or a list of strings: %w", err)
	}
	*s = Speech{Text: text}
	return nil
}

// MarshalJSON writes the speech back in the shape it was read.
func (s Speech) MarshalJSON() ([]byte, error) {
	if s.IsList {
		return json.Marshal(s.Alternatives)
	}
	return json.Marshal(s.Text)
}

// Answer converts the speech value into a report answer.
func (s Speech) Answer() Answer {
	if s.IsList {
		return AlternativesAnswer(s.Alternatives)
	}
	return PlainAnswer(s.Text)
}

// unmarshalStrings decodes a JSON array of strings. Null elements carry no
// text and are dropped; the result is never nil.
func unmarshalStrings(data []byte) ([]string, error) {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

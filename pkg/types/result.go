// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Answer is one bot answer slot of an intent. It is either a PlainAnswer or
// an AlternativesAnswer; no other implementations exist.
type Answer interface {
	isAnswer()
}

// PlainAnswer is a single answer string.
type PlainAnswer string

// AlternativesAnswer lists equivalent phrasings for one answer slot. It may
// be empty and may contain empty strings, exactly as exported.
type AlternativesAnswer []string

func (PlainAnswer) isAnswer()        {}
func (AlternativesAnswer) isAnswer() {}

// Result is the extraction result for one intent.
type Result struct {
	// Name is the archive entry name the intent was read from
	// (e.g. "intents/greet.json").
	Name string `json:"name" yaml:"name"`

	// UserSays lists the sample user utterances in source order.
	UserSays []string `json:"user_says" yaml:"user_says"`

	// Answers lists the bot answers in source order.
	Answers []Answer `json:"answers" yaml:"answers"`

	// QuickAnswers lists the quick-reply suggestions in source order.
	QuickAnswers []string `json:"quick_answers" yaml:"quick_answers"`
}

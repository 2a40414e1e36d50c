// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes extraction results as a readable text outline, or
// as YAML or JSON documents.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/intent-report/pkg/types"
)

// Write renders results to w in the given format.
func Write(w io.Writer, format types.OutputFormat, results []types.Result) error {
	switch format {
	case types.FormatText, "":
		return Text(w, results)
	case types.FormatYAML:
		return YAML(w, results)
	case types.FormatJSON:
		return JSON(w, results)
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml, or json", format)
	}
}

// Text writes results as a nested outline, one intent after the other:
//
//	# Intent: <name>
//	## User Says:
//	 - <utterance>
//	## Answers
//	 1. <answer>
//	 1. *Alternatives:*
//	     - <alternative>
//	## Possible User Answers
//	 - <quick answer>
//
// Empty alternatives are dropped, an empty alternatives list renders
// nothing, and the last section appears only when there are quick answers.
func Text(w io.Writer, results []types.Result) error {
	for _, r := range results {
		if _, err := io.WriteString(w, intentText(r)); err != nil {
			return fmt.Errorf("writing intent %s: %w", r.Name, err)
		}
	}
	return nil
}

func intentText(r types.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Intent: %s\n", r.Name)

	b.WriteString("## User Says:\n")
	for _, s := range r.UserSays {
		fmt.Fprintf(&b, " - %s\n", s)
	}

	b.WriteString("## Answers\n")
	for _, a := range r.Answers {
		switch a := a.(type) {
		case types.PlainAnswer:
			fmt.Fprintf(&b, " 1. %s\n", string(a))
		case types.AlternativesAnswer:
			if len(a) == 0 {
				continue
			}
			b.WriteString(" 1. *Alternatives:*\n")
			for _, alt := range a {
				if alt == "" {
					continue
				}
				fmt.Fprintf(&b, "     - %s\n", alt)
			}
		}
	}

	if len(r.QuickAnswers) > 0 {
		b.WriteString("## Possible User Answers\n")
		for _, qa := range r.QuickAnswers {
			fmt.Fprintf(&b, " - %s\n", qa)
		}
	}
	return b.String()
}

// YAML writes results as a YAML sequence.
func YAML(w io.Writer, results []types.Result) error {
	if results == nil {
		results = []types.Result{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// JSON writes results as an indented JSON array.
func JSON(w io.Writer, results []types.Result) error {
	if results == nil {
		results = []types.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrMalformedResponse is matched by every ParseFailure.
var ErrMalformedResponse = errors.New("malformed generator response")

// ParseFailure describes why a model response could not be decoded.
type ParseFailure struct {
	Reason string
	Raw    string
	Err    error
}

func (p *ParseFailure) Error() string {
	if p.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedResponse, p.Reason, p.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedResponse, p.Reason)
}

// Is makes errors.Is(err, ErrMalformedResponse) true.
func (p *ParseFailure) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (p *ParseFailure) Unwrap() error {
	return p.Err
}

// ExtractJSON returns the first balanced JSON object in raw. Markdown code
// fences (with or without a language tag) and surrounding prose are ignored.
func ExtractJSON(raw string) (string, error) {
	text := stripFence(raw)
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &ParseFailure{Reason: "no JSON object found", Raw: raw}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", &ParseFailure{Reason: "unterminated JSON object", Raw: raw}
}

// DecodeJSON extracts the first JSON object from raw and unmarshals it into v.
func DecodeJSON(raw string, v any) error {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return &ParseFailure{Reason: "invalid JSON", Raw: raw, Err: err}
	}
	return nil
}

// stripFence returns the body of the first ``` fenced block, or raw trimmed
// when there is no fence.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	// drop the language tag line, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

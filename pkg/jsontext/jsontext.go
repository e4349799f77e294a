// Package jsontext pulls JSON values out of free-form language-model
// output. Model responses are frequently wrapped in Markdown fences or
// surrounded by prose, and are not guaranteed to be well-formed.
package jsontext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoValue is returned when the text contains no JSON object or array.
var ErrNoValue = errors.New("no JSON value found in text")

// ExtractObject returns the substring between the first '{' and the last
// '}' after stripping any code fences. The result is not validated.
func ExtractObject(s string) (string, error) {
	return extract(stripFences(s), '{', '}')
}

// ExtractArray is the array counterpart of ExtractObject.
func ExtractArray(s string) (string, error) {
	return extract(stripFences(s), '[', ']')
}

// DecodeObject extracts a JSON object from s and unmarshals it into out.
// Malformed output gets one repair pass before the decode error surfaces.
func DecodeObject(s string, out any) error {
	raw, err := ExtractObject(s)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// DecodeArray extracts a JSON array from s and unmarshals it into out.
func DecodeArray(s string, out any) error {
	raw, err := ExtractArray(s)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw string, out any) error {
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return fmt.Errorf("repair JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("decode repaired JSON: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return s
}

func extract(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end < start {
		return "", ErrNoValue
	}
	return s[start : end+1], nil
}

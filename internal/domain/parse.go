package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNULCharacter marks payloads carrying U+0000, which PostgreSQL rejects in
// both TEXT and JSONB columns.
var ErrNULCharacter = errors.New("payload contains NUL character")

// ParseRawEvent deserializes a RawEvent's value into a Report. The message key
// stands in for the ID when the payload carries none. Payloads containing a
// NUL character anywhere are rejected with ErrNULCharacter since no sink can
// store them.
func ParseRawEvent(raw RawEvent) (Report, error) {
	var report Report
	if err := json.Unmarshal(raw.Value, &report); err != nil {
		return Report{}, fmt.Errorf("parse raw report: %w", err)
	}
	if containsEscapedNUL(raw.Value) {
		return Report{}, fmt.Errorf("parse raw report: %w", ErrNULCharacter)
	}
	if report.ID == "" {
		report.ID = string(raw.Key)
	}
	if report.ID == "" {
		return Report{}, errors.New("parse raw report: missing id")
	}
	if strings.ContainsRune(report.ID, 0) {
		return Report{}, fmt.Errorf("parse raw report: id: %w", ErrNULCharacter)
	}
	report.RawPayload = raw.Value
	return report, nil
}

// SerializeReport marshals a report for the sink topic.
func SerializeReport(report Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	return data, nil
}

// containsEscapedNUL reports whether valid JSON text encodes U+0000. A raw NUL
// byte cannot appear in valid JSON, so only the \u0000 escape needs checking,
// and only when the backslash is not itself escaped.
func containsEscapedNUL(data []byte) bool {
	for i := 0; i+6 <= len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		if data[i+1] == 'u' && string(data[i+2:i+6]) == "0000" {
			return true
		}
		i++ // skip the escaped character
	}
	return false
}

// Package cdc decodes row images out of change-data-capture events.
package cdc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRow extracts the row image from a change event value. It accepts a
// Debezium envelope with or without the schema wrapper, or a plain JSON
// object. ok is false for tombstones and delete events.
func DecodeRow(value []byte) (row map[string]any, ok bool, err error) {
	if len(bytes.TrimSpace(value)) == 0 {
		return nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var event map[string]any
	if err := dec.Decode(&event); err != nil {
		return nil, false, fmt.Errorf("decode change event: %w", err)
	}
	if event == nil {
		return nil, false, nil
	}

	if payload, found := event["payload"]; found {
		m, isMap := payload.(map[string]any)
		if !isMap {
			return nil, false, nil
		}
		event = m
	}

	if op, _ := event["op"].(string); op == "d" {
		return nil, false, nil
	}
	if after, found := event["after"]; found {
		m, isMap := after.(map[string]any)
		if !isMap {
			return nil, false, nil
		}
		return m, true, nil
	}
	return event, true, nil
}

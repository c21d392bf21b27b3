// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/crowd-band/store"
)

// recordVersion is the current envelope version. Bump it together with a
// migration in decodeRecord when a record's shape changes.
const recordVersion = 1

// Record kinds
const (
	kindPrompt     = "prompt"
	kindSubmission = "submission"
	kindStats      = "user_stats"
	kindSong       = "final_song"
)

type envelope struct {
	Version int             `json:"v"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func encodeRecord(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return json.Marshal(envelope{Version: recordVersion, Kind: kind, Data: data})
}

func decodeRecord[T any](kind string, raw []byte) (T, error) {
	var out T
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return out, fmt.Errorf("decode %s envelope: %w", kind, err)
	}
	if env.Kind != kind {
		return out, fmt.Errorf("decode %s: record holds %q", kind, env.Kind)
	}
	if env.Version != recordVersion {
		return out, fmt.Errorf("decode %s: unsupported version %d", kind, env.Version)
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", kind, err)
	}
	return out, nil
}

// getRecord reads and decodes the record at key. A missing key is reported
// as ErrNotFound.
func getRecord[T any](tx store.Txn, kind, key string) (T, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", kind, key, ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	return decodeRecord[T](kind, raw)
}

func putRecord(tx store.Txn, kind, key string, v any) error {
	raw, err := encodeRecord(kind, v)
	if err != nil {
		return err
	}
	if err := tx.Set(key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

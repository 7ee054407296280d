package storage

import (
	"encoding/json"
	"fmt"
)

// Store is the key-value persistence port behind the ledger, gates, claims
// and session. Reads and writes complete synchronously.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// SetMany writes all entries as one unit.
	SetMany(entries map[string]string) error
	Delete(key string) error
	// Clear removes every key.
	Clear() error
	Close() error
}

// GetJSON decodes the JSON value stored under key into v. It reports false
// when the key is absent.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v under key as JSON.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}

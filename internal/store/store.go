// Package store is the key-value persistence boundary. A Backend moves raw
// bytes; an Adapter layers JSON values on top and decides what counts as
// "nothing saved yet".
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for backend operations.
var (
	ErrNotFound    = errors.New("key not found")
	ErrUnavailable = errors.New("storage unavailable")
)

// Backend is a flat namespace of named byte values.
type Backend interface {
	// Get returns the value saved under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the value under key.
	Set(key string, value []byte) error
	// Keys returns every stored key in sorted order.
	Keys() ([]string, error)
	// Clear removes every key.
	Clear() error
}

// Adapter stores JSON-serializable values in a Backend.
type Adapter struct {
	backend Backend
}

func NewAdapter(b Backend) *Adapter {
	if b == nil {
		panic("store: nil backend")
	}
	return &Adapter{backend: b}
}

// Load decodes the value under key into v. It reports false when the key
// was never saved or holds data that does not decode into v; the two cases
// are indistinguishable to the caller. A non-nil error means the backend
// itself could not be read.
func (a *Adapter) Load(key string, v any) (bool, error) {
	b, err := a.backend.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, unavailable(key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Save encodes v and writes it under key.
func (a *Adapter) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal %s: %w", key, err)
	}
	if err := a.backend.Set(key, b); err != nil {
		return unavailable(key, err)
	}
	return nil
}

// ClearAll removes every stored key. There is no undo.
func (a *Adapter) ClearAll() error {
	if err := a.backend.Clear(); err != nil {
		return unavailable("*", err)
	}
	return nil
}

// Dump returns every stored key with its value decoded as JSON, or as the
// raw string when it does not parse.
func (a *Adapter) Dump() (map[string]any, error) {
	keys, err := a.backend.Keys()
	if err != nil {
		return nil, unavailable("*", err)
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		b, err := a.backend.Get(k)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, unavailable(k, err)
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			out[k] = string(b)
			continue
		}
		out[k] = v
	}
	return out, nil
}

func unavailable(key string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, key, err)
}

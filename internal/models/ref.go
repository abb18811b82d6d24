package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to another entity that is either unresolved (only the identifier is known)
// or resolved (the referenced document has been loaded alongside the owner).
//
// On the wire an unresolved Ref is the bare identifier string and a resolved Ref is the embedded
// document. Decoding accepts both shapes, and for documents reads the identifier from "id" or "_id".
type Ref[T any] struct {
	ID    string
	Value *T
}

// RefTo builds an unresolved reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Resolved builds a resolved reference.
func Resolved[T any](id string, value *T) Ref[T] {
	return Ref[T]{ID: id, Value: value}
}

// IsResolved reports whether the referenced document is available.
func (r Ref[T]) IsResolved() bool {
	return r.Value != nil
}

// IsZero reports whether the reference points nowhere.
func (r Ref[T]) IsZero() bool {
	return r.ID == "" && r.Value == nil
}

// MarshalJSON implements json.Marshaler.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.ID)
	case '{':
		var ids struct {
			ID      string `json:"id"`
			MongoID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("decode reference id: %w", err)
		}
		var value T
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("decode reference document: %w", err)
		}
		r.ID = ids.ID
		if r.ID == "" {
			r.ID = ids.MongoID
		}
		r.Value = &value
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %s", string(data))
	}
}

package history

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldNull
	fieldValue
)

// Field is a tri-state patch value for a nullable attribute.
//
// The zero Field is unspecified: the patch does not touch the attribute.
// Null explicitly clears it, and Set assigns a value. Fields tagged with
// `json:",omitzero"` are omitted when unspecified, encode as null when
// cleared and as the value otherwise.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field that assigns v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

// Null returns a Field that clears the attribute.
func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// FieldFromPtr returns Null for a nil pointer and Set(*p) otherwise.
func FieldFromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

// IsZero reports whether the field is unspecified.
func (f Field[T]) IsZero() bool { return f.state == fieldUnset }

// IsSpecified reports whether the field is either cleared or set.
func (f Field[T]) IsSpecified() bool { return f.state != fieldUnset }

// IsNull reports whether the field explicitly clears the attribute.
func (f Field[T]) IsNull() bool { return f.state == fieldNull }

// Get returns the assigned value and true, or the zero value and false
// when the field is unspecified or null.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldValue
}

// Ptr returns the value the attribute takes after application: nil for
// Null, a pointer to a copy of the value for Set. It must only be called on
// a specified field.
func (f Field[T]) Ptr() *T {
	if f.state != fieldValue {
		return nil
	}
	v := f.value
	return &v
}

// MarshalJSON encodes a cleared field as null and a set field as its value.
// Unspecified fields should never reach here thanks to omitzero; they also
// encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != fieldValue {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what separates Null from unspecified.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

// sameAs reports whether the field's outcome matches cur under eq.
// An unspecified field never matches.
func sameAs[T any](f Field[T], cur *T, eq func(a, b T) bool) bool {
	switch f.state {
	case fieldNull:
		return cur == nil
	case fieldValue:
		return cur != nil && eq(f.value, *cur)
	}
	return false
}

func equal[T comparable](a, b T) bool { return a == b }

// diffField returns the Field that turns cur into proposed, or an
// unspecified Field when they already agree.
func diffField[T any](proposed, cur *T, eq func(a, b T) bool) Field[T] {
	if proposed == nil && cur == nil {
		return Field[T]{}
	}
	if proposed != nil && cur != nil && eq(*proposed, *cur) {
		return Field[T]{}
	}
	return FieldFromPtr(proposed)
}

// diffValue returns a pointer to proposed when it differs from cur.
func diffValue[T any](proposed, cur T, eq func(a, b T) bool) *T {
	if eq(proposed, cur) {
		return nil
	}
	return &proposed
}

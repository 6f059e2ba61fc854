package history

import "strings"

// FieldSet names patch fields by their JSON key.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// ParseFieldSet splits a comma-separated list, trimming entries and skipping
// empty ones.
func ParseFieldSet(csv string) FieldSet {
	s := FieldSet{}
	for _, part := range strings.Split(csv, ",") {
		if n := strings.TrimSpace(part); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// axis tags a patch field with the verification axis it invalidates.
type axis uint8

const (
	axisNone axis = iota
	axisPosition
	axisService
	axisInfrastructure
)

// patchField is a uniform view over one field of a patch, used for the
// operations that only care whether a field is specified.
type patchField struct {
	name      string
	axis      axis
	specified bool
	clear     func()
}

func tri[T any](name string, ax axis, f *Field[T]) patchField {
	return patchField{name: name, axis: ax, specified: f.IsSpecified(), clear: func() { *f = Field[T]{} }}
}

func opt[T any](name string, ax axis, p **T) patchField {
	return patchField{name: name, axis: ax, specified: *p != nil, clear: func() { *p = nil }}
}

func fieldsEmpty(fields []patchField) bool {
	for _, f := range fields {
		if f.specified {
			return false
		}
	}
	return true
}

func dropNamed(fields []patchField, names FieldSet) {
	for _, f := range fields {
		if names.Has(f.name) {
			f.clear()
		}
	}
}

func specifiedNames(fields []patchField) []string {
	var out []string
	for _, f := range fields {
		if f.specified {
			out = append(out, f.name)
		}
	}
	return out
}

// dropNoop unsets f when its outcome equals cur.
func dropNoop[T any](f *Field[T], cur *T, eq func(a, b T) bool) {
	if sameAs(*f, cur, eq) {
		*f = Field[T]{}
	}
}

// dropOpt unsets p when it points at a value equal to cur.
func dropOpt[T any](p **T, cur T, eq func(a, b T) bool) {
	if *p != nil && eq(**p, cur) {
		*p = nil
	}
}

// dropEnumNoop compares a historical enum field with the live value by
// converting it first.
func dropEnumNoop[L comparable, H liveEnum[L]](f *Field[H], cur *L) error {
	h, ok := f.Get()
	if !ok {
		if f.IsNull() && cur == nil {
			*f = Field[H]{}
		}
		return nil
	}
	l, err := h.Live()
	if err != nil {
		return err
	}
	if cur != nil && *cur == l {
		*f = Field[H]{}
	}
	return nil
}

func applyField[T any](f Field[T], dst **T) {
	if f.IsSpecified() {
		*dst = f.Ptr()
	}
}

func applyOpt[T any](p *T, dst *T) {
	if p != nil {
		*dst = *p
	}
}

func applyEnum[L any, H liveEnum[L]](f Field[H], dst **L) error {
	if !f.IsSpecified() {
		return nil
	}
	h, ok := f.Get()
	if !ok {
		*dst = nil
		return nil
	}
	l, err := h.Live()
	if err != nil {
		return err
	}
	*dst = &l
	return nil
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

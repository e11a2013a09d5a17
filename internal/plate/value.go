package plate

import "strings"

// Value is a tagged scalar-or-list variant. Aggregated fields keep their
// cardinality explicit so consumers must handle both shapes instead of
// guessing from runtime types.
type Value struct {
	items []string
	list  bool
}

// Scalar wraps a single value.
func Scalar(value string) Value {
	return Value{items: []string{value}}
}

// List wraps an ordered sequence of values. A single-element list stays a
// list; flattening is the grouper's decision, not the container's.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{items: cp, list: true}
}

// IsList reports whether the value carries multiple ordered entries.
func (v Value) IsList() bool { return v.list }

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool { return v.items == nil }

// IsEmpty reports whether the value holds no usable content.
func (v Value) IsEmpty() bool {
	if v.IsZero() {
		return true
	}
	for _, item := range v.items {
		if strings.TrimSpace(item) != "" {
			return false
		}
	}
	return true
}

// Scalar returns the single value. For lists it returns the first entry so
// misuse degrades predictably rather than panicking.
func (v Value) Scalar() string {
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// Items returns the ordered entries. Scalars yield a one-element slice.
func (v Value) Items() []string {
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// Len returns the number of entries.
func (v Value) Len() int { return len(v.items) }

// Join renders the entries separated by sep; scalars render as themselves.
func (v Value) Join(sep string) string {
	return strings.Join(v.items, sep)
}

// Equal reports whether two values have the same shape and entries.
func (v Value) Equal(other Value) bool {
	if v.list != other.list || len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

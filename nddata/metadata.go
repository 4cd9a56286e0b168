package nddata

import (
	"fmt"
	"iter"
	"slices"
)

// Commentary is a COMMENT or HISTORY record. Unlike keyed entries these may
// repeat, so they are kept in their own ordered list.
type Commentary struct {
	Key  string
	Text string
}

type entry struct {
	value   any
	comment string
}

// Metadata is an ordered mapping of header keywords to scalar values.
// Read methods are safe on a nil *Metadata.
type Metadata struct {
	keys       []string
	entries    map[string]entry
	commentary []Commentary
}

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return &Metadata{entries: make(map[string]entry)}
}

// Set assigns value to key. An existing key keeps its position and comment;
// a new key is appended.
func (m *Metadata) Set(key string, value any) {
	e, ok := m.entries[key]
	if !ok {
		m.SetWithComment(key, value, "")
		return
	}
	e.value = value
	m.entries[key] = e
}

// SetWithComment assigns value and comment to key.
func (m *Metadata) SetWithComment(key string, value any, comment string) {
	if m.entries == nil {
		m.entries = make(map[string]entry)
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = entry{value: value, comment: comment}
}

// Get returns the value stored for key.
func (m *Metadata) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	e, ok := m.entries[key]
	return e.value, ok
}

// Comment returns the comment stored for key.
func (m *Metadata) Comment(key string) string {
	if m == nil {
		return ""
	}
	return m.entries[key].comment
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (m *Metadata) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of keyed entries.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// All iterates keyed entries in insertion order.
func (m *Metadata) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.entries[k].value) {
				return
			}
		}
	}
}

// Commentary returns the COMMENT and HISTORY records in order.
func (m *Metadata) Commentary() []Commentary {
	if m == nil {
		return nil
	}
	return slices.Clone(m.commentary)
}

// AddCommentary appends a COMMENT or HISTORY record.
func (m *Metadata) AddCommentary(key, text string) {
	m.commentary = append(m.commentary, Commentary{Key: key, Text: text})
}

// Clone returns an independent copy of m.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	if m == nil {
		return out
	}
	out.keys = slices.Clone(m.keys)
	for k, e := range m.entries {
		out.entries[k] = e
	}
	out.commentary = slices.Clone(m.commentary)
	return out
}

// Float returns the numeric value of key. ok is false when the key is
// absent; err is set when it is present but not a number.
func (m *Metadata) Float(key string) (v float64, ok bool, err error) {
	raw, ok := m.Get(key)
	if !ok {
		return 0, false, nil
	}
	switch x := raw.(type) {
	case float64:
		return x, true, nil
	case float32:
		return float64(x), true, nil
	case int:
		return float64(x), true, nil
	case int8:
		return float64(x), true, nil
	case int16:
		return float64(x), true, nil
	case int32:
		return float64(x), true, nil
	case int64:
		return float64(x), true, nil
	case uint8:
		return float64(x), true, nil
	case uint16:
		return float64(x), true, nil
	case uint32:
		return float64(x), true, nil
	case uint64:
		return float64(x), true, nil
	default:
		return 0, true, fmt.Errorf("keyword %s: expected number, got %T", key, raw)
	}
}

// Text returns the string value of key. ok is false when the key is
// absent; err is set when it is present but not a string.
func (m *Metadata) Text(key string) (s string, ok bool, err error) {
	raw, ok := m.Get(key)
	if !ok {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", true, fmt.Errorf("keyword %s: expected string, got %T", key, raw)
	}
	return s, true, nil
}

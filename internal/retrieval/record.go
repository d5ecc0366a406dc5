// Package retrieval provides keyword extraction, two-phase record matching,
// and grounding-context formatting over institutional records.
package retrieval

import (
	"strconv"
	"strings"
)

// Known record field names.
const (
	TeacherNameField = "name_of_teacher"
	StudentNameField = "Nameof students"
)

// ValueKind identifies the scalar type held by a Value.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindNumber
)

// Value is a scalar record cell.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// StringValue returns a string cell.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue returns a numeric cell.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// EmptyValue returns a missing cell.
func EmptyValue() Value {
	return Value{}
}

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the cell carries no value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// String renders the cell. Whole numbers render without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered, read-only mapping from field name to scalar value.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in column order. Later duplicates of a
// name are dropped.
func NewRecord(fields ...Field) Record {
	seen := make(map[string]bool, len(fields))
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	return Record{fields: out}
}

// Get returns the value for name and whether the field exists.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the record carries the named field.
func (r Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// String renders the record as {name: value, ...} in column order.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// searchText is the lowercased, space-joined form of every present value.
func (r Record) searchText() string {
	parts := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		if f.Value.IsEmpty() {
			continue
		}
		parts = append(parts, strings.ToLower(f.Value.String()))
	}
	return strings.Join(parts, " ")
}

// nameValue returns the lowercased name of a teacher or student record.
// The teacher field wins when both are present.
func (r Record) nameValue() (string, bool) {
	for _, field := range []string{TeacherNameField, StudentNameField} {
		if v, ok := r.Get(field); ok {
			name := strings.ToLower(strings.TrimSpace(v.String()))
			return name, name != ""
		}
	}
	return "", false
}

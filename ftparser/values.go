package ftparser

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ValueKind discriminates the Value tagged union.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueInt    ValueKind = "int"
	ValueFloat  ValueKind = "float"
	ValueBool   ValueKind = "bool"
	ValueIdent  ValueKind = "ident"
	ValueList   ValueKind = "list"
	ValueDict   ValueKind = "dict"
)

// Value is an attribute value. Kind determines which accessor succeeds.
// Values are immutable; to change an attribute, insert a new Value.
type Value struct {
	kind    ValueKind
	str     string // ValueString and ValueIdent
	integer int64
	float   float64
	boolean bool
	list    []Value
	dict    *Dict
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// IntValue returns a 64-bit integer value.
func IntValue(n int64) Value { return Value{kind: ValueInt, integer: n} }

// FloatValue returns a 64-bit floating point value.
func FloatValue(f float64) Value { return Value{kind: ValueFloat, float: f} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: ValueBool, boolean: b} }

// IdentValue returns an identifier value, written !name in source.
func IdentValue(name string) Value { return Value{kind: ValueIdent, str: name} }

// ListValue builds a list from copies of items. Items may be of mixed kinds.
func ListValue(items ...Value) Value {
	return Value{kind: ValueList, list: slices.Clone(items)}
}

// DictValue builds a dict from entries. A repeated key keeps its first
// position and takes the last value.
func DictValue(entries ...DictEntry) Value {
	return Value{kind: ValueDict, dict: newDict(entries)}
}

// Kind returns the kind of the value, or "" for the zero Value.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the text of a string value. ok is false for other kinds.
func (v Value) AsString() (s string, ok bool) { return v.str, v.kind == ValueString }

// AsInt returns the integer of an int value. ok is false for other kinds.
func (v Value) AsInt() (n int64, ok bool) { return v.integer, v.kind == ValueInt }

// AsFloat returns the number of a float value. ok is false for other kinds,
// including ints.
func (v Value) AsFloat() (f float64, ok bool) { return v.float, v.kind == ValueFloat }

// AsBool returns the boolean of a bool value. ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.boolean, v.kind == ValueBool }

// AsIdent returns the name of an identifier value, without the leading !.
func (v Value) AsIdent() (name string, ok bool) { return v.str, v.kind == ValueIdent }

// AsList returns a copy of the list items.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// AsDict returns the dict. The returned Dict is read-only.
func (v Value) AsDict() (*Dict, bool) {
	if v.kind != ValueDict {
		return nil, false
	}
	return v.dict, true
}

// Equal reports whether two values are structurally equal. Lists compare
// element by element; dicts compare by key set regardless of order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueString, ValueIdent:
		return v.str == other.str
	case ValueInt:
		return v.integer == other.integer
	case ValueFloat:
		return v.float == other.float
	case ValueBool:
		return v.boolean == other.boolean
	case ValueList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case ValueDict:
		return v.dict.Equal(other.dict)
	default:
		return true
	}
}

// String renders the value for debugging and test failure messages.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return strconv.Quote(v.str)
	case ValueIdent:
		return "!" + v.str
	case ValueInt:
		return strconv.FormatInt(v.integer, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.boolean)
	case ValueList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValueDict:
		var parts []string
		for k, item := range v.dict.All() {
			parts = append(parts, strconv.Quote(k)+": "+item.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// DictEntry is one key-value pair of a dict literal.
type DictEntry struct {
	Key   string
	Value Value
}

// Dict is a string-keyed mapping that remembers insertion order.
type Dict struct {
	keys   []string
	values map[string]Value
}

func newDict(entries []DictEntry) *Dict {
	d := &Dict{values: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, ok := d.values[e.Key]; !ok {
			d.keys = append(d.keys, e.Key)
		}
		d.values[e.Key] = e.Value
	}
	return d
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Get looks up the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string { return slices.Clone(d.keys) }

// All iterates over the entries in insertion order.
func (d *Dict) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether both dicts hold equal values under the same keys.
func (d *Dict) Equal(other *Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	for k, v := range d.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ParseScalar converts a single literal token into a Value. Strings,
// integers, floats and booleans are accepted; composite values and
// identifier values span several tokens and are handled by the parser.
func ParseScalar(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenString:
		return StringValue(tok.Literal), nil

	case TokenInteger:
		n, err := parseInteger(tok.Literal, tok.Base)
		if err != nil {
			return Value{}, &ParseError{SourceError: SourceError{
				Message: fmt.Sprintf("invalid integer %s: %v", tok.Literal, err),
				Pos:     tok.Pos,
				Cause:   err,
			}}
		}
		return IntValue(n), nil

	case TokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			return Value{}, &ParseError{SourceError: SourceError{
				Message: fmt.Sprintf("invalid float %s: %v", tok.Literal, err),
				Pos:     tok.Pos,
				Cause:   err,
			}}
		}
		return FloatValue(f), nil

	case TokenTrue:
		return BoolValue(true), nil

	case TokenFalse:
		return BoolValue(false), nil

	default:
		return Value{}, unexpected(tok, "value")
	}
}

// ErrIntegerOverflow is the cause of a ParseError for an integer literal
// outside the int64 range.
var ErrIntegerOverflow = errors.New("value out of range for a 64-bit integer")

// parseInteger converts an integer literal (optional sign, optional base
// prefix, optional _ separators) in the given base.
func parseInteger(literal string, base int) (int64, error) {
	digits := literal
	negative := false
	if digits != "" && (digits[0] == '+' || digits[0] == '-') {
		negative = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) > 2 && digits[0] == '0' && basePrefix(digits[1]) != 0 {
		digits = digits[2:]
	}
	digits = strings.ReplaceAll(digits, "_", "")
	if base == 0 {
		base = 10
	}

	magnitude, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrIntegerOverflow
		}
		return 0, err
	}

	if negative {
		if magnitude == uint64(math.MaxInt64)+1 {
			return math.MinInt64, nil
		}
		n, err := safecast.Conv[int64](magnitude)
		if err != nil {
			return 0, ErrIntegerOverflow
		}
		return -n, nil
	}

	n, err := safecast.Conv[int64](magnitude)
	if err != nil {
		return 0, ErrIntegerOverflow
	}
	return n, nil
}

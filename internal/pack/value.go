package pack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Decoded JSON values are nil, bool, float64, string, []any, object or
// surrogate.

// member is one key/value pair of a JSON object.
type member struct {
	Key   string
	Value any
}

// object is a JSON object. Members are kept in insertion order; on output,
// array-index keys come first in ascending order, followed by the remaining
// keys in insertion order.
type object []member

// surrogate is a lone UTF-16 code unit, produced when a string is split into
// code units. It is written as a \u escape.
type surrogate uint16

func (o *object) set(key string, value any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, member{Key: key, Value: value})
}

func (o *object) remove(key string) {
	out := (*o)[:0]
	for _, m := range *o {
		if m.Key != key {
			out = append(out, m)
		}
	}
	*o = out
}

func (o object) get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// ordered returns the members in output order.
func (o object) ordered() []member {
	var indexes, named []member
	for _, m := range o {
		if _, ok := arrayIndex(m.Key); ok {
			indexes = append(indexes, m)
		} else {
			named = append(named, m)
		}
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		a, _ := arrayIndex(indexes[i].Key)
		b, _ := arrayIndex(indexes[j].Key)
		return a < b
	})
	return append(indexes, named...)
}

// arrayIndex reports whether key is the canonical decimal form of an integer
// in [0, 2^32-2].
func arrayIndex(key string) (uint32, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// parse decodes raw JSON into a value tree. A repeated object key keeps its
// first position and its last value.
func parse(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("decode %q: %w", key, err)
				}
				obj.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			items := []any{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, err
		}
		return f, nil
	default:
		return t, nil
	}
}

// encode appends the compact JSON form of v to buf. Non-finite numbers are
// written as null.
func encode(buf *bytes.Buffer, v any) {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			buf.WriteString("null")
			return
		}
		buf.WriteString(formatNumber(v))
	case string:
		encodeString(buf, v)
	case surrogate:
		fmt.Fprintf(buf, `"\u%04x"`, uint16(v))
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			encode(buf, item)
		}
		buf.WriteByte(']')
	case object:
		buf.WriteByte('{')
		for i, m := range v.ordered() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, m.Key)
			buf.WriteByte(':')
			encode(buf, m.Value)
		}
		buf.WriteByte('}')
	}
}

// encodeString writes s as a JSON string. Only quotes, backslashes and
// control characters are escaped.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// marshal returns the compact JSON form of v.
func marshal(v any) json.RawMessage {
	var buf bytes.Buffer
	encode(&buf, v)
	return buf.Bytes()
}

// truthy reports whether a value counts as present. Null, false, zero, NaN
// and the empty string do not.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	}
	return true
}

// spread returns the members a value contributes when copied into an
// object: objects copy their members, arrays become index-keyed, strings
// become one key per UTF-16 code unit, everything else contributes nothing.
func spread(v any) object {
	switch v := v.(type) {
	case object:
		return append(object{}, v...)
	case []any:
		obj := make(object, 0, len(v))
		for i, item := range v {
			obj = append(obj, member{Key: strconv.Itoa(i), Value: item})
		}
		return obj
	case string:
		units := utf16.Encode([]rune(v))
		obj := make(object, 0, len(units))
		for i := 0; i < len(units); i++ {
			u := units[i]
			if utf16.IsSurrogate(rune(u)) {
				obj = append(obj, member{Key: strconv.Itoa(i), Value: surrogate(u)})
				continue
			}
			obj = append(obj, member{Key: strconv.Itoa(i), Value: string(rune(u))})
		}
		return obj
	}
	return object{}
}

// stringify converts a value to its string form: strings as-is, numbers in
// shortest round-trip notation, arrays joined with commas and objects as
// "[object Object]".
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			if item == nil {
				continue
			}
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	}
	return "[object Object]"
}

func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package chsql

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Parameter is one named query parameter, bound server side to a
// {name:Type} placeholder in the SQL text. The value is serialized into the
// ClickHouse parameter text syntax and sent as the query-string pair
// param_<name>=<encoded value>; it is never inlined into the SQL text.
type Parameter struct {
	Name  string
	Value any
}

// Param is shorthand for constructing a Parameter.
func Param(name string, value any) Parameter {
	return Parameter{Name: name, Value: value}
}

// Tuple serializes as a fixed-arity ClickHouse tuple, (...) on the wire,
// as opposed to a plain slice which serializes as an array.
type Tuple []any

// Date is a calendar day without a time component. At the top level it
// serializes as its ISO form; nested inside a container it is additionally
// single-quoted.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

type queryPair struct {
	key, value string
}

// encodeParameters serializes params into ordered wire pairs. Parameter
// names must be unique within one request. Caller values are never mutated;
// only new wire strings are produced.
func encodeParameters(params []Parameter) ([]queryPair, error) {
	seen := make(map[string]struct{}, len(params))
	pairs := make([]queryPair, 0, len(params))
	for _, p := range params {
		if _, ok := seen[p.Name]; ok {
			return nil, validationErrorf("duplicate parameter name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		pairs = append(pairs, queryPair{key: "param_" + p.Name, value: encodeValue(p.Value, false)})
	}
	return pairs, nil
}

// encodeValue renders one parameter value in the ClickHouse parameter text
// syntax. nested selects the container-element rule set: strings gain single
// quotes with internal quotes doubled, dates gain single quotes.
func encodeValue(v any, nested bool) string {
	switch v := v.(type) {
	case string:
		return encodeString(v, nested)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return encodeTime(v)
	case Date:
		if nested {
			return "'" + v.String() + "'"
		}
		return v.String()
	case Tuple:
		return encodeSeq(v, "(", ")")
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return encodeSeq(elems, "[", "]")
	case reflect.Map:
		return encodeMap(rv)
	case reflect.Ptr:
		if !rv.IsNil() {
			return encodeValue(rv.Elem().Interface(), nested)
		}
	}
	// anything else falls back to its default textual form
	return fmt.Sprintf("%v", v)
}

func encodeSeq(elems []any, opening, closing string) string {
	var b strings.Builder
	b.WriteString(opening)
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(encodeValue(e, true))
	}
	b.WriteString(closing)
	return b.String()
}

// Go map iteration order is random; entries are sorted by their encoded key
// so the wire text is deterministic.
func encodeMap(rv reflect.Value) string {
	entries := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := encodeValue(iter.Key().Interface(), true)
		v := encodeValue(iter.Value().Interface(), true)
		entries = append(entries, k+":"+v)
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, ",") + "}"
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`)

// encodeString escapes backslash, tab and newline as literal two-character
// sequences. Nested strings are additionally single-quoted with internal
// single quotes doubled.
func encodeString(s string, nested bool) string {
	s = stringEscaper.Replace(s)
	if nested {
		s = "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return s
}

// encodeTime renders a date-time as UTC Unix epoch seconds: a bare integer
// when there is no sub-second remainder, otherwise with exactly six decimal
// places.
func encodeTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return strconv.FormatInt(t.Unix(), 10)
	}
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

// appendQueryPairs percent-encodes pairs and appends them to u's existing
// query string, preserving both the existing content and the pair order.
// url.Values is avoided on purpose: its Encode sorts keys.
func appendQueryPairs(u *url.URL, pairs []queryPair) {
	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range pairs {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	u.RawQuery = b.String()
}

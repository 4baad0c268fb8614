package listview

import (
	"strconv"
	"strings"
	"time"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindNumber
	kindString
)

// Value is a sortable cell. Numbers compare numerically, everything else as
// case-insensitive text, and nulls sort first ascending and last descending.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

func Null() Value { return Value{kind: kindNull} }

func Number(n float64) Value { return Value{kind: kindNumber, num: n} }

func Int(n int) Value { return Number(float64(n)) }

func String(s string) Value { return Value{kind: kindString, str: s} }

// OptString treats the empty string as a missing value.
func OptString(s string) Value {
	if s == "" {
		return Null()
	}
	return String(s)
}

// Time sorts timestamps chronologically; the zero time is missing.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Null()
	}
	return Number(float64(t.UnixNano()))
}

func TimePtr(t *time.Time) Value {
	if t == nil {
		return Null()
	}
	return Time(*t)
}

func IntPtr(n *int) Value {
	if n == nil {
		return Null()
	}
	return Int(*n)
}

func (v Value) IsNull() bool { return v.kind == kindNull }

func (v Value) text() string {
	if v.kind == kindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return strings.ToLower(v.str)
}

// compare orders two non-null values.
func compare(a, b Value) int {
	if a.kind == kindNumber && b.kind == kindNumber {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return strings.Compare(a.text(), b.text())
}

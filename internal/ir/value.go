package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the values that can be hashed.
// There is no float and no null: bonus fractions travel as per-mille ints.
type Value interface {
	value()
}

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Object maps keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// Ints converts a slice of ints to an Array.
func Ints(ns []int) Array {
	arr := make(Array, len(ns))
	for i, n := range ns {
		arr[i] = Int(n)
	}
	return arr
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// This differs from sort.Strings for keys outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

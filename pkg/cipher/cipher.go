// Package cipher implements the repeating-key XOR used to obfuscate save
// files. The transform works on UTF-16 code units, the way the game's
// runtime stores strings, so a character outside the BMP is XORed as two
// independent surrogate halves.
package cipher

import (
	"errors"
	"unicode/utf16"
)

// DefaultKey is the key the game derives from its save category name.
const DefaultKey = "GameData"

// ErrEmptyKey is returned by NewKey for a zero-length key.
var ErrEmptyKey = errors.New("cipher key must not be empty")

// Key is an immutable, non-empty sequence of UTF-16 code units.
type Key struct {
	units []uint16
	text  string
}

// NewKey builds a Key from s.
func NewKey(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrEmptyKey
	}
	return Key{units: utf16.Encode([]rune(s)), text: s}, nil
}

// MustKey is like NewKey but panics on an empty key.
func MustKey(s string) Key {
	k, err := NewKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Default returns the key for DefaultKey.
func Default() Key {
	return MustKey(DefaultKey)
}

func (k Key) String() string {
	return k.text
}

// Len returns the number of code units in the key.
func (k Key) Len() int {
	return len(k.units)
}

// Units XORs every code unit of text with the key, cycling the key.
// Applying it twice returns the original slice contents.
func (k Key) Units(text []uint16) []uint16 {
	if len(k.units) == 0 {
		panic(ErrEmptyKey)
	}
	out := make([]uint16, len(text))
	n := len(k.units)
	for i, u := range text {
		out[i] = u ^ k.units[i%n]
	}
	return out
}

// Apply runs the cipher over s. A result containing a lone surrogate is
// rendered with U+FFFD in its place, matching what a UTF-8 writer does
// with such a string.
func (k Key) Apply(s string) string {
	return string(utf16.Decode(k.Units(utf16.Encode([]rune(s)))))
}

// Apply XORs text with key. It panics if key is empty; use NewKey to
// validate user input first.
func Apply(text, key string) string {
	return MustKey(key).Apply(text)
}

package cipher

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey_Empty(t *testing.T) {
	_, err := NewKey("")
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestApply_FirstCharacter(t *testing.T) {
	out := Apply("AB", DefaultKey)
	units := utf16.Encode([]rune(out))
	require.Len(t, units, 2)
	assert.Equal(t, uint16(0x41^0x47), units[0])
	assert.Equal(t, uint16(0x06), units[0])
	assert.Equal(t, uint16('B'^'a'), units[1])

	assert.Equal(t, "AB", Apply(out, DefaultKey))
}

func TestApply_Involution(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
	}{
		{"empty", "", DefaultKey},
		{"json", `{"a":1,"b":[1,2],"c":"x y"}`, DefaultKey},
		{"longer than key", "the quick brown fox jumps over the lazy dog", DefaultKey},
		{"single char key", "abcdef", "Z"},
		{"latin1", "café über", DefaultKey},
		{"control chars", "\x00\x01\x7f\n\t", "k"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			once := Apply(tc.text, tc.key)
			assert.Equal(t, tc.text, Apply(once, tc.key))
		})
	}
}

func TestUnits_InvolutionAllCodeUnits(t *testing.T) {
	text := make([]uint16, 0x10000)
	for i := range text {
		text[i] = uint16(i)
	}
	for _, key := range []string{DefaultKey, "\U0001F600", "ÿ"} {
		k := MustKey(key)
		once := k.Units(text)
		require.Equal(t, text, k.Units(once), "key %q", key)
	}
}

func TestUnits_SurrogatePairXoredPerHalf(t *testing.T) {
	k := MustKey("ab")
	text := utf16.Encode([]rune("\U0001F600"))
	require.Len(t, text, 2)

	out := k.Units(text)
	assert.Equal(t, text[0]^'a', out[0])
	assert.Equal(t, text[1]^'b', out[1])
}

func TestKey_Len(t *testing.T) {
	assert.Equal(t, 8, Default().Len())
	assert.Equal(t, 2, MustKey("\U0001F600").Len())
	assert.Equal(t, DefaultKey, Default().String())
}

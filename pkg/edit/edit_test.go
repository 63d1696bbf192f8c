package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{"player":{"name":"Dave \"D\"","gold":12345678901234567890,"items":[{"id":1},{"id":2,"tags":["a","b"]}]},"z":null,"a":true}`

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr bool
	}{
		{path: "", want: nil},
		{path: ".", want: nil},
		{path: "player", want: []string{"player"}},
		{path: "player.items[1].tags[0]", want: []string{"player", "items", "[1]", "tags", "[0]"}},
		{path: "grid[2][3]", want: []string{"grid", "[2]", "[3]"}},
		{path: "[0].id", want: []string{"[0]", "id"}},
		{path: "a..b", wantErr: true},
		{path: "a[x]", wantErr: true},
		{path: "a[1", wantErr: true},
		{path: "a[1]b", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := ParsePath(tc.path)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		path     string
		wantRaw  string
		wantType string
	}{
		{"player.gold", "12345678901234567890", "number"},
		{"player.name", `"Dave \"D\""`, "string"},
		{"player.items[1].tags", `["a","b"]`, "array"},
		{"player.items[0]", `{"id":1}`, "object"},
		{"z", "null", "null"},
		{"a", "true", "boolean"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			v, err := Get([]byte(doc), tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRaw, string(v.Raw))
			assert.Equal(t, tc.wantType, v.Type)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := Get([]byte(doc), "player.silver")
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestKeys(t *testing.T) {
	names, err := Keys([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"player", "z", "a"}, names)

	names, err = Keys([]byte(doc), "player")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "gold", "items"}, names)

	_, err = Keys([]byte(doc), "nope")
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestSet_ReplacesOnlyTheValue(t *testing.T) {
	out, err := Set([]byte(doc), "player.gold", []byte("99999999999999999999"), false)
	require.NoError(t, err)
	assert.Equal(t,
		`{"player":{"name":"Dave \"D\"","gold":99999999999999999999,"items":[{"id":1},{"id":2,"tags":["a","b"]}]},"z":null,"a":true}`,
		string(out))
}

func TestSet_ArrayElement(t *testing.T) {
	out, err := Set([]byte(doc), "player.items[1].tags[0]", []byte(`"c"`), false)
	require.NoError(t, err)
	v, err := Get(out, "player.items[1].tags")
	require.NoError(t, err)
	assert.Equal(t, `["c","b"]`, string(v.Raw))
}

func TestSet_MissingPath(t *testing.T) {
	_, err := Set([]byte(doc), "player.silver", []byte("1"), false)
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestSet_Create(t *testing.T) {
	in := []byte(doc)
	out, err := Set(in, "player.silver", []byte("7"), true)
	require.NoError(t, err)
	assert.Equal(t, doc, string(in))

	v, err := Get(out, "player.silver")
	require.NoError(t, err)
	assert.Equal(t, "7", string(v.Raw))
}

func TestSet_InvalidValue(t *testing.T) {
	_, err := Set([]byte(doc), "z", []byte("{oops"), false)
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = Set([]byte(doc), "", []byte("1"), false)
	require.ErrorIs(t, err, ErrInvalidPath)
}

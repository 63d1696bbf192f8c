package savefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davesave/davesave/pkg/codec"
	"github.com/davesave/davesave/pkg/rawjson"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	c := codec.New()

	sav := writeSave(t, dir, "a.sav", compactSave)
	text, err := Load(c, sav)
	require.NoError(t, err)
	assert.Equal(t, compactSave, text)

	jsonPath := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(rawjson.Format(compactSave)), 0644))
	text, err = Load(c, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, compactSave, text)

	bad := writeSave(t, dir, "bad.sav", `{`)
	_, err = Load(c, bad)
	require.ErrorIs(t, err, codec.ErrInvalidJSON)

	_, err = Load(c, filepath.Join(dir, "a.txt"))
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	p, _, _ := newProcessor()

	sav := filepath.Join(dir, "out.sav")
	_, err := p.Store(sav, `{"x":1}`, "  ")
	require.NoError(t, err)
	got, err := os.ReadFile(sav)
	require.NoError(t, err)
	assert.Equal(t, codec.New().Encode(`{"x":1}`, true), got)

	jsonPath := filepath.Join(dir, "out.json")
	_, err = p.Store(jsonPath, `{"x":1}`, "  ")
	require.NoError(t, err)
	got, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": 1\n}", string(got))
}

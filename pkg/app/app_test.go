package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, in string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0644))

	var out, errb bytes.Buffer
	a := New()
	a.OutWriter = &out
	a.ErrWriter = &errb
	a.ColorableOut = &out
	a.InReader = strings.NewReader(in)
	a.CfgFile = cfgPath
	require.NoError(t, a.InitConfig())
	return a, &out, &errb
}

func TestParseIndent(t *testing.T) {
	n, err := ParseIndent("tab")
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	n, err = ParseIndent("2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, bad := range []string{"0", "-3", "wide"} {
		_, err = ParseIndent(bad)
		assert.Error(t, err, bad)
	}
}

func TestInitConfig_FlagOverrides(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	a.KeyFlag = "Other"
	a.IndentFlag = "tab"
	require.NoError(t, a.InitConfig())

	c, err := a.NewCodec()
	require.NoError(t, err)
	assert.Equal(t, "Other", c.Key().String())
	assert.Equal(t, "\t", a.IndentUnit())

	assert.Empty(t, a.Cfg.Key)
	assert.Zero(t, a.Cfg.Indent)
	assert.Equal(t, "    ", a.Cfg.IndentUnit())
}

func TestConfirmOverwrite_LineInput(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range tests {
		a, _, errb := newTestApp(t, tc.in)
		ok, err := a.ConfirmOverwrite("slot.sav")
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "input %q", tc.in)
		assert.Contains(t, errb.String(), "'slot.sav' already exists. Overwrite? (y/N)")
	}
}

func TestConfirmOverwrite_OneAnswerPerPrompt(t *testing.T) {
	a, _, errb := newTestApp(t, "y\nn\ny\n")

	var got []bool
	for i := 0; i < 4; i++ {
		ok, err := a.ConfirmOverwrite("slot.sav")
		require.NoError(t, err)
		got = append(got, ok)
	}
	assert.Equal(t, []bool{true, false, true, false}, got)
	assert.Equal(t, 4, strings.Count(errb.String(), "Overwrite? (y/N)"))

	a.SetInput(strings.NewReader("yes\n"))
	ok, err := a.ConfirmOverwrite("slot.sav")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewProcessor(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	c, err := a.NewCodec()
	require.NoError(t, err)

	p, err := a.NewProcessor(c, false)
	require.NoError(t, err)
	assert.NotNil(t, p.Confirm)
	assert.Nil(t, p.Backup)
	assert.Equal(t, ".failed_decode.txt", p.FailedSuffix)

	a.AssumeYes = true
	p, err = a.NewProcessor(c, true)
	require.NoError(t, err)
	assert.Nil(t, p.Confirm)
	assert.NotNil(t, p.Backup)
}

func TestRender(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	raw := []byte(`{"b":12345678901234567890,"a":[1]}`)

	require.NoError(t, a.Render(raw, OutputFormatRaw))
	assert.Equal(t, string(raw)+"\n", out.String())

	out.Reset()
	require.NoError(t, a.Render(raw, OutputFormatPretty))
	assert.Equal(t, "{\n    \"b\": 12345678901234567890,\n    \"a\": [\n        1\n    ]\n}\n", out.String())

	out.Reset()
	require.NoError(t, a.Render(raw, OutputFormatColor))
	assert.Contains(t, out.String(), "12345678901234567890")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestOutputFormat_Set(t *testing.T) {
	var f OutputFormat
	require.NoError(t, f.Set("color"))
	assert.Equal(t, "color", f.String())
	require.Error(t, f.Set("yaml"))
}

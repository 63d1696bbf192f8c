package savefile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// BackupNamer renders backup file names from a text/template with the
// sprig function map. The template sees Dir, Name (file name with
// extension), Base (without extension) and Ext.
type BackupNamer struct {
	tmpl *template.Template
}

type backupData struct {
	Dir  string
	Name string
	Base string
	Ext  string
}

// NewBackupNamer parses text. clock backs the "now" function; nil means
// time.Now.
func NewBackupNamer(text string, clock func() time.Time) (*BackupNamer, error) {
	funcs := sprig.TxtFuncMap()
	if clock != nil {
		funcs["now"] = clock
	}
	tmpl, err := template.New("backup").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse backup template: %w", err)
	}
	return &BackupNamer{tmpl: tmpl}, nil
}

// Name returns the backup path for path. A relative result is placed
// next to the original file.
func (n *BackupNamer) Name(path string) (string, error) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	data := backupData{
		Dir:  filepath.Dir(path),
		Name: name,
		Base: strings.TrimSuffix(name, ext),
		Ext:  ext,
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render backup name: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" || out == name {
		return "", fmt.Errorf("backup template produced an unusable name %q", out)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(data.Dir, out)
	}
	return out, nil
}

// Package savefile drives the codec over files on disk: it picks the
// direction from the file extension, names the output, diagnostic and
// round-trip files, asks before overwriting a save and optionally backs
// the old one up.
package savefile

import (
	"path/filepath"
	"strings"
)

const (
	ExtSav    = ".sav"
	ExtJSON   = ".json"
	ExtResave = ".resave"
)

// Kind classifies a path by its extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindSave
	KindJSON
)

func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtSav:
		return KindSave
	case ExtJSON:
		return KindJSON
	default:
		return KindUnknown
	}
}

// TrimExt removes the final extension from path.
func TrimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func JSONPath(path string) string {
	return TrimExt(path) + ExtJSON
}

func SavPath(path string) string {
	return TrimExt(path) + ExtSav
}

func ResavePath(path string) string {
	return TrimExt(path) + ExtResave
}

// FailedPath names the file that receives deciphered text that did not
// validate.
func FailedPath(path, suffix string) string {
	return TrimExt(path) + suffix
}

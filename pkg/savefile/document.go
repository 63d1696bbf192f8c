package savefile

import (
	"fmt"
	"os"

	"github.com/davesave/davesave/pkg/codec"
	"github.com/davesave/davesave/pkg/rawjson"
)

// Load returns the compact JSON text of a .sav or .json file.
func Load(c *codec.Codec, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	switch KindOf(path) {
	case KindSave:
		res, err := c.DecodeCompact(data)
		if err != nil {
			return "", err
		}
		if !res.OK {
			return "", fmt.Errorf("%w: %v", codec.ErrInvalidJSON, res.Cause)
		}
		return res.Text, nil
	case KindJSON:
		return rawjson.Compact(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported file extension for %q", path)
	}
}

// Store writes compact JSON text back to path in the file's own format:
// ciphered for .sav, pretty-printed for .json. Saves go through
// WriteSave, so the overwrite prompt and backups apply.
func (p *Processor) Store(path, compact, indent string) (Outcome, error) {
	switch KindOf(path) {
	case KindSave:
		return p.WriteSave(path, compact, true)
	case KindJSON:
		if err := os.WriteFile(path, []byte(rawjson.FormatIndent(compact, indent)), 0644); err != nil {
			return Outcome{}, fmt.Errorf("write json: %w", err)
		}
		return Outcome{Output: path}, nil
	default:
		return Outcome{}, fmt.Errorf("unsupported file extension for %q", path)
	}
}

// Package edit reads and replaces single values in compact save JSON by
// key path. Values are located and spliced as raw bytes with jsonparser,
// so everything outside the edited value is left exactly as it was.
package edit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

var (
	ErrPathNotFound = errors.New("key path not found")
	ErrInvalidValue = errors.New("value is not valid JSON")
	ErrInvalidPath  = errors.New("invalid key path")
)

// Value is a raw JSON value found at a key path.
type Value struct {
	// Raw is the value as it appears in the document, quotes included
	// for strings.
	Raw  []byte
	Type string
}

// ParsePath splits a path such as "player.items[2].id" into the keys
// jsonparser expects: "player", "items", "[2]", "id". An empty path or
// "." addresses the whole document.
func ParsePath(path string) ([]string, error) {
	if path == "" || path == "." {
		return nil, nil
	}

	var keys []string
	for _, part := range strings.Split(path, ".") {
		name := part
		var indexes []string
		if i := strings.IndexByte(part, '['); i >= 0 {
			name = part[:i]
			rest := part[i:]
			for rest != "" {
				end := strings.IndexByte(rest, ']')
				if rest[0] != '[' || end < 0 {
					return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
				}
				if _, err := strconv.Atoi(rest[1:end]); err != nil {
					return nil, fmt.Errorf("%w: bad index in %q", ErrInvalidPath, path)
				}
				indexes = append(indexes, rest[:end+1])
				rest = rest[end+1:]
			}
		}
		if name == "" && len(indexes) == 0 {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
		if name != "" {
			keys = append(keys, name)
		}
		keys = append(keys, indexes...)
	}
	return keys, nil
}

// Get returns the value at path.
func Get(doc []byte, path string) (Value, error) {
	keys, err := ParsePath(path)
	if err != nil {
		return Value{}, err
	}

	raw, typ, _, err := jsonparser.Get(doc, keys...)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return Value{}, fmt.Errorf("get %s: %w", path, err)
	}
	if typ == jsonparser.String {
		// jsonparser strips the quotes; the escapes are still in place.
		quoted := make([]byte, 0, len(raw)+2)
		quoted = append(quoted, '"')
		quoted = append(quoted, raw...)
		raw = append(quoted, '"')
	}
	return Value{Raw: raw, Type: typ.String()}, nil
}

// Keys lists the member names of the object at path in document order.
func Keys(doc []byte, path string) ([]string, error) {
	keys, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	var names []string
	err = jsonparser.ObjectEach(doc, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		names = append(names, string(key))
		return nil
	}, keys...)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("list keys at %s: %w", path, err)
	}
	return names, nil
}

// Set replaces the value at path with value, which must be valid JSON.
// Unless create is set the path must already exist.
func Set(doc []byte, path string, value []byte, create bool) ([]byte, error) {
	if !json.Valid(value) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, value)
	}
	keys, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: refusing to replace the whole document", ErrInvalidPath)
	}

	if !create {
		if _, _, _, err := jsonparser.Get(doc, keys...); err != nil {
			if errors.Is(err, jsonparser.KeyPathNotFoundError) {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
			}
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
	}

	// Set may append into its input when it creates keys.
	out, err := jsonparser.Set(bytes.Clone(doc), value, keys...)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", path, err)
	}
	return out, nil
}

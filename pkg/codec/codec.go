// Package codec converts between save-file bytes and editable JSON text.
//
// Decoding deciphers the file and reshapes it with rawjson; nothing in the
// path builds an object model, so the text encodes back to the exact
// original bytes. encoding/json is only consulted to confirm that the
// deciphered text is well formed, and its result is thrown away.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/tidwall/jsonc"

	"github.com/davesave/davesave/pkg/cipher"
	"github.com/davesave/davesave/pkg/rawjson"
)

// Encoder converts edited JSON text to save-file bytes.
type Encoder interface {
	Encode(in []byte) ([]byte, error)
}

// Decoder converts save-file bytes to JSON text.
type Decoder interface {
	Decode(in []byte) ([]byte, error)
}

// ErrInvalidJSON is returned by SaveCodec.Decode when the deciphered text
// is not well-formed JSON.
var ErrInvalidJSON = errors.New("deciphered data is not valid JSON")

// DecodingError reports input that is not valid UTF-8.
type DecodingError struct {
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("input is not valid UTF-8 (first invalid byte at offset %d)", e.Offset)
}

// Result is the outcome of a decode. When OK is false, Text holds the
// deciphered but unformatted text so it can be kept for inspection, and
// Cause says why it was rejected.
type Result struct {
	Text  string
	OK    bool
	Cause error
}

// Codec holds the settings shared by decode, encode and verify. The zero
// value is not usable; call New.
type Codec struct {
	key      cipher.Key
	indent   string
	comments bool
	logger   *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithKey replaces the default cipher key.
func WithKey(k cipher.Key) Option {
	return func(c *Codec) { c.key = k }
}

// WithIndent sets the indentation unit used when pretty-printing.
func WithIndent(unit string) Option {
	return func(c *Codec) { c.indent = unit }
}

// WithComments makes Encode strip // and /* */ comments and trailing
// commas from non-compact input.
func WithComments(enabled bool) Option {
	return func(c *Codec) { c.comments = enabled }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// New returns a Codec using the game's key and a four-space indent unless
// overridden.
func New(opts ...Option) *Codec {
	c := &Codec{
		key:    cipher.Default(),
		indent: rawjson.DefaultIndent,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cipher key in use.
func (c *Codec) Key() cipher.Key {
	return c.key
}

// Decode deciphers b and pretty-prints the result. Only invalid UTF-8 is
// an error; text that fails the JSON check comes back with OK unset.
func (c *Codec) Decode(b []byte) (Result, error) {
	return c.decode(b, true)
}

// DecodeCompact is Decode without the pretty-printing step.
func (c *Codec) DecodeCompact(b []byte) (Result, error) {
	return c.decode(b, false)
}

func (c *Codec) decode(b []byte, pretty bool) (Result, error) {
	if !utf8.Valid(b) {
		return Result{}, &DecodingError{Offset: invalidOffset(b)}
	}

	text := c.key.Apply(string(b))
	if err := validate(text); err != nil {
		c.logger.Debug("deciphered text failed validation", "size", len(b), "error", err)
		return Result{Text: text, Cause: err}, nil
	}

	if pretty {
		text = rawjson.FormatIndent(text, c.indent)
	}
	c.logger.Debug("decoded save", "size", len(b), "pretty", pretty)
	return Result{Text: text, OK: true}, nil
}

// Encode compacts text unless alreadyCompact is set, then ciphers it. The
// text is not validated.
func (c *Codec) Encode(text string, alreadyCompact bool) []byte {
	if !alreadyCompact {
		if c.comments {
			text = string(jsonc.ToJSON([]byte(text)))
		}
		text = rawjson.Compact(text)
	}
	out := []byte(c.key.Apply(text))
	c.logger.Debug("encoded save", "size", len(out), "compacted", !alreadyCompact)
	return out
}

// validate parses text and discards the value.
func validate(text string) error {
	var discard json.RawMessage
	if err := json.Unmarshal([]byte(text), &discard); err != nil {
		return fmt.Errorf("validate JSON: %w", err)
	}
	return nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// SaveCodec adapts a Codec to the byte-oriented Encoder and Decoder
// interfaces.
type SaveCodec struct {
	*Codec
}

var (
	_ Encoder = SaveCodec{}
	_ Decoder = SaveCodec{}
)

// Encode compacts and ciphers JSON text.
func (s SaveCodec) Encode(in []byte) ([]byte, error) {
	return s.Codec.Encode(string(in), false), nil
}

// Decode returns the pretty-printed JSON for a save file, or an error
// wrapping ErrInvalidJSON when it does not decipher to JSON.
func (s SaveCodec) Decode(in []byte) ([]byte, error) {
	res, err := s.Codec.Decode(in)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, res.Cause)
	}
	return []byte(res.Text), nil
}

package savefile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davesave/davesave/pkg/codec"
	"github.com/davesave/davesave/pkg/config"
)

var (
	// ErrBatchFailed is returned by Report.Err when at least one file
	// could not be converted.
	ErrBatchFailed = errors.New("one or more files failed")
	// ErrNotIdentical marks a round trip whose output differs from the
	// original save.
	ErrNotIdentical = errors.New("round trip did not reproduce the original bytes")
)

// Confirm asks whether path may be overwritten.
type Confirm func(path string) (bool, error)

// Processor converts files with a Codec. Out receives progress messages
// and Err receives warnings; both may be nil.
type Processor struct {
	Codec  *codec.Codec
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
	// Confirm is consulted before an existing .sav is overwritten. Nil
	// overwrites without asking.
	Confirm Confirm
	// Backup, when set, copies an existing .sav aside before it is
	// overwritten.
	Backup       *BackupNamer
	FailedSuffix string
}

// Outcome describes what happened to one input file.
type Outcome struct {
	Input  string
	Output string
	// Diagnostic is set when decoded text failed validation and was
	// written aside instead of Output.
	Diagnostic string
	BackupPath string
	// Skipped is set when the user declined an overwrite.
	Skipped bool
}

// Report summarizes a batch.
type Report struct {
	Outcomes []Outcome
	Warnings []string
	Failed   map[string]error
}

// Err returns ErrBatchFailed if any file errored. A save that deciphers
// to invalid JSON only produces a diagnostic file and does not count.
func (r Report) Err() error {
	if len(r.Failed) > 0 {
		return ErrBatchFailed
	}
	return nil
}

func (p *Processor) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

func (p *Processor) errw() io.Writer {
	if p.Err == nil {
		return io.Discard
	}
	return p.Err
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

func (p *Processor) failedSuffix() string {
	if p.FailedSuffix == "" {
		return config.DefaultFailedSuffix
	}
	return p.FailedSuffix
}

// Run converts each path according to its extension: .sav files are
// decoded to .json and .json files are encoded to .sav. Missing files and
// unknown extensions are skipped with a warning. A failure on one file
// does not stop the others; only cancellation of ctx does.
func (p *Processor) Run(ctx context.Context, paths []string) (Report, error) {
	rep := Report{Failed: map[string]error{}}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		if !fileExists(path) {
			rep.warn(p.errw(), "Warning: File not found: '%s'. Skipping.", path)
			continue
		}

		var (
			o   Outcome
			err error
		)
		switch KindOf(path) {
		case KindJSON:
			o, err = p.EncodeFile(path, false)
		case KindSave:
			o, err = p.DecodeFile(path, true)
		default:
			rep.warn(p.errw(), "Warning: Unsupported file extension '%s' for '%s'. Skipping.", extOf(path), path)
			continue
		}
		if err != nil {
			fmt.Fprintf(p.errw(), "Error: %s: %v\n", path, err)
			rep.Failed[path] = err
			continue
		}
		rep.Outcomes = append(rep.Outcomes, o)
	}
	return rep, nil
}

func (r *Report) warn(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	fmt.Fprintln(w, msg)
}

// DecodeFile decodes a .sav into the .json next to it. If the deciphered
// text is not valid JSON it is written to the diagnostic file instead and
// the returned Outcome has Diagnostic set; that is not an error.
func (p *Processor) DecodeFile(path string, pretty bool) (Outcome, error) {
	p.logger().Debug("decoding", "path", path, "pretty", pretty)
	data, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read save: %w", err)
	}

	var res codec.Result
	if pretty {
		res, err = p.Codec.Decode(data)
	} else {
		res, err = p.Codec.DecodeCompact(data)
	}
	if err != nil {
		return Outcome{}, err
	}

	o := Outcome{Input: path}
	if !res.OK {
		o.Diagnostic = FailedPath(path, p.failedSuffix())
		if err := os.WriteFile(o.Diagnostic, []byte(res.Text), 0644); err != nil {
			return Outcome{}, fmt.Errorf("write diagnostic file: %w", err)
		}
		fmt.Fprintf(p.errw(), "Error: decrypted data in '%s' is not valid JSON: %v\n", path, res.Cause)
		fmt.Fprintf(p.errw(), "  Saved decrypted text to '%s' for inspection.\n", o.Diagnostic)
		return o, nil
	}

	o.Output = JSONPath(path)
	if err := os.WriteFile(o.Output, []byte(res.Text), 0644); err != nil {
		return Outcome{}, fmt.Errorf("write json: %w", err)
	}
	fmt.Fprintf(p.out(), "Decoded '%s' to '%s'.\n", path, o.Output)
	return o, nil
}

// EncodeFile encodes a .json into the .sav next to it. An existing .sav
// is only replaced after Confirm agrees, and is backed up first when a
// BackupNamer is set.
func (p *Processor) EncodeFile(path string, alreadyCompact bool) (Outcome, error) {
	p.logger().Debug("encoding", "path", path, "compact", alreadyCompact)
	text, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read json: %w", err)
	}

	o, err := p.WriteSave(SavPath(path), string(text), alreadyCompact)
	if err != nil {
		return Outcome{}, err
	}
	o.Input = path
	if o.Skipped {
		fmt.Fprintf(p.out(), "Kept existing '%s'.\n", o.Output)
		return o, nil
	}
	if o.BackupPath != "" {
		fmt.Fprintf(p.out(), "Backed up '%s' to '%s'.\n", o.Output, o.BackupPath)
	}
	fmt.Fprintf(p.out(), "Encoded '%s' to '%s'.\n", path, o.Output)
	return o, nil
}

// WriteSave encodes text to path. An existing file is only replaced after
// Confirm agrees, and is backed up first when a BackupNamer is set.
func (p *Processor) WriteSave(path, text string, alreadyCompact bool) (Outcome, error) {
	o := Outcome{Output: path}
	if fileExists(path) {
		if p.Confirm != nil {
			ok, err := p.Confirm(path)
			if err != nil {
				return Outcome{}, fmt.Errorf("confirm overwrite: %w", err)
			}
			if !ok {
				o.Skipped = true
				return o, nil
			}
		}
		if p.Backup != nil {
			var err error
			if o.BackupPath, err = p.backup(path); err != nil {
				return Outcome{}, err
			}
		}
	}
	if err := os.WriteFile(path, p.Codec.Encode(text, alreadyCompact), 0644); err != nil {
		return Outcome{}, fmt.Errorf("write save: %w", err)
	}
	return o, nil
}

func (p *Processor) backup(path string) (string, error) {
	name, err := p.Backup.Name(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read save for backup: %w", err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return name, nil
}

// RoundTrip decodes a .sav to compact <base>.json, encodes that to
// <base>.resave and compares the result with the original file. The
// intermediate files are removed only when the bytes match, so a
// mismatch can be inspected.
func (p *Processor) RoundTrip(path string) (codec.Verification, error) {
	if KindOf(path) != KindSave {
		return codec.Verification{}, fmt.Errorf("round trip needs a %s file, got %q", ExtSav, path)
	}
	fmt.Fprintf(p.out(), "--- Running round-trip test on '%s' ---\n", path)
	defer fmt.Fprintln(p.out(), "--- Test complete ---")

	fmt.Fprintln(p.out(), "Step 1: Decoding .sav to raw .json...")
	o, err := p.DecodeFile(path, false)
	if err != nil {
		return codec.Verification{}, err
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return codec.Verification{}, fmt.Errorf("read save: %w", err)
	}
	if o.Diagnostic != "" {
		fmt.Fprintln(p.out(), "FAILURE: Decode step failed to produce a .json file.")
		return codec.Verification{OriginalSize: len(original)}, nil
	}

	fmt.Fprintln(p.out(), "Step 2: Re-encoding raw .json to .resave...")
	compact, err := os.ReadFile(o.Output)
	if err != nil {
		return codec.Verification{}, fmt.Errorf("read json: %w", err)
	}
	resavePath := ResavePath(path)
	if err := os.WriteFile(resavePath, p.Codec.Encode(string(compact), true), 0644); err != nil {
		return codec.Verification{}, fmt.Errorf("write resave: %w", err)
	}

	fmt.Fprintln(p.out(), "Step 3: Comparing original .sav with the new .resave file...")
	resaved, err := os.ReadFile(resavePath)
	if err != nil {
		return codec.Verification{}, fmt.Errorf("read resave: %w", err)
	}
	v := codec.Compare(original, resaved)

	if !v.Identical {
		fmt.Fprintf(p.out(), "FAILURE: The files are NOT identical (first difference at byte %d).\n", v.FirstDiff)
		return v, nil
	}
	fmt.Fprintln(p.out(), "SUCCESS: The files are identical. The process is perfectly reversible.")
	fmt.Fprintln(p.out(), "Step 4: Cleaning up intermediate files...")
	for _, f := range []string{o.Output, resavePath} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return v, fmt.Errorf("remove %s: %w", f, err)
		}
	}
	return v, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

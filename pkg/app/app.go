package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davesave/davesave/pkg/cipher"
	"github.com/davesave/davesave/pkg/codec"
	"github.com/davesave/davesave/pkg/config"
	"github.com/davesave/davesave/pkg/savefile"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	// Config state
	Cfg        config.Config
	CfgFile    string
	KeyFlag    string
	IndentFlag string
	AssumeYes  bool
	Verbose    bool

	Logger *slog.Logger

	// indentOverride is the parsed --indent flag; zero means unset.
	indentOverride int
	// lines buffers InReader for line answers across prompts.
	lines *bufio.Reader

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// InitConfig reads the config file and resolves flag overrides. The
// overrides stay outside Cfg so that writing Cfg never persists them.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.indentOverride = 0
	if a.IndentFlag != "" {
		indent, err := ParseIndent(a.IndentFlag)
		if err != nil {
			return err
		}
		a.indentOverride = indent
	}
	if a.Cfg.AssumeYes {
		a.AssumeYes = true
	}

	level := slog.LevelWarn
	if a.Verbose {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(a.ErrWriter, &slog.HandlerOptions{Level: level}))
	return nil
}

// ParseIndent accepts "tab" or a positive number of spaces.
func ParseIndent(s string) (int, error) {
	if strings.EqualFold(s, "tab") {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("indent must be a positive number of spaces or \"tab\", got %q", s)
	}
	return n, nil
}

// CipherKey returns the --key flag if given, else the configured key.
func (a *App) CipherKey() (cipher.Key, error) {
	if a.KeyFlag != "" {
		return cipher.NewKey(a.KeyFlag)
	}
	return a.Cfg.CipherKey()
}

// Indent returns the effective indent setting: spaces per level, -1 for a
// tab, 0 for the default.
func (a *App) Indent() int {
	if a.indentOverride != 0 {
		return a.indentOverride
	}
	return a.Cfg.Indent
}

// IndentUnit returns the string for one level of indentation.
func (a *App) IndentUnit() string {
	cfg := config.Config{Indent: a.Indent()}
	return cfg.IndentUnit()
}

// NewCodec builds a codec from the resolved settings.
func (a *App) NewCodec(opts ...codec.Option) (*codec.Codec, error) {
	key, err := a.CipherKey()
	if err != nil {
		return nil, err
	}
	base := []codec.Option{
		codec.WithKey(key),
		codec.WithIndent(a.IndentUnit()),
		codec.WithLogger(a.Logger),
	}
	return codec.New(append(base, opts...)...), nil
}

// NewProcessor wires a file processor to the App's writers, prompt and
// backup settings. backup forces backups on even if the config leaves
// them off.
func (a *App) NewProcessor(c *codec.Codec, backup bool) (*savefile.Processor, error) {
	p := &savefile.Processor{
		Codec:        c,
		Out:          a.OutWriter,
		Err:          a.ErrWriter,
		Logger:       a.Logger,
		FailedSuffix: a.Cfg.FailedDecodeSuffix(),
	}
	if !a.AssumeYes {
		p.Confirm = a.ConfirmOverwrite
	}
	if backup || a.Cfg.Backup {
		namer, err := savefile.NewBackupNamer(a.Cfg.BackupNameTemplate(), nil)
		if err != nil {
			return nil, err
		}
		p.Backup = namer
	}
	return p, nil
}

// ConfirmOverwrite asks on the terminal whether path may be replaced.
// When input is not a terminal it reads one line and accepts "y" or "yes".
func (a *App) ConfirmOverwrite(path string) (bool, error) {
	label := fmt.Sprintf("'%s' already exists. Overwrite", path)

	if !a.interactive() {
		fmt.Fprintf(a.ErrWriter, "%s? (y/N): ", label)
		line, err := a.lineReader().ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(a.InReader),
		Stdout:    nopWriteCloser{a.ErrWriter},
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetInput replaces InReader and drops any buffered answers.
func (a *App) SetInput(r io.Reader) {
	a.InReader = r
	a.lines = nil
}

// lineReader returns the reader shared by all prompts of one run, so
// answers piped in for several files are read one line at a time.
func (a *App) lineReader() *bufio.Reader {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.InReader)
	}
	return a.lines
}

func (a *App) interactive() bool {
	f, ok := a.InReader.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether colored output should be written.
func (a *App) ColorEnabled() bool {
	if a.Cfg.Color != nil {
		return *a.Cfg.Color
	}
	f, ok := a.OutWriter.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ValidSaveArgs completes .sav files.
func (a *App) ValidSaveArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"sav"}, cobra.ShellCompDirectiveFilterFileExt
}

// ValidJSONArgs completes .json files.
func (a *App) ValidJSONArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// ValidAnyArgs completes .sav and .json files.
func (a *App) ValidAnyArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"sav", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}

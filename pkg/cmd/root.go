package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/cmd/completion"
	saveconfig "github.com/davesave/davesave/pkg/cmd/config"
	"github.com/davesave/davesave/pkg/cmd/decode"
	"github.com/davesave/davesave/pkg/cmd/encode"
	"github.com/davesave/davesave/pkg/cmd/get"
	"github.com/davesave/davesave/pkg/cmd/roundtrip"
	"github.com/davesave/davesave/pkg/cmd/set"
	"github.com/davesave/davesave/pkg/cmd/verify"
	"github.com/davesave/davesave/pkg/savefile"
)

var errNoFiles = errors.New("no files given")

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(app.New(), version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree around a.
func NewRootCommand(a *app.App, version, commit string) *cobra.Command {
	var testMode bool

	root := &cobra.Command{
		Use:   "davesave [FILE...]",
		Short: "Convert Dave the Diver save files between .sav and .json",
		Long: `Convert Dave the Diver save files between .sav and .json.

Each .sav argument is decoded to an editable .json next to it and each
.json argument is encoded back to a .sav. The conversion works on the raw
text, so large numbers and key order survive untouched and an unedited
.json encodes to the original save byte for byte.`,
		Example: `  davesave GameSave_00_GD.sav
  davesave GameSave_00_GD.json
  davesave --test GameSave_00_GD.sav`,
		Version:           fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:      true,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: a.ValidAnyArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.SetInput(cmd.InOrStdin())

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
			}

			return a.InitConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errNoFiles
			}

			if testMode {
				if len(args) != 1 || savefile.KindOf(args[0]) != savefile.KindSave {
					_ = cmd.Usage()
					return fmt.Errorf("--test flag requires a single %s file as an argument", savefile.ExtSav)
				}
				return roundtrip.Run(a, args[0])
			}

			c, err := a.NewCodec()
			if err != nil {
				return err
			}
			p, err := a.NewProcessor(c, false)
			if err != nil {
				return err
			}
			rep, err := p.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			return rep.Err()
		},
	}

	root.Flags().BoolVar(&testMode, "test", false, "Run a round-trip test on a single .sav file")

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.davesave/config)")
	root.PersistentFlags().StringVar(&a.KeyFlag, "key", "", "XOR key (default \"GameData\")")
	root.PersistentFlags().StringVar(&a.IndentFlag, "indent", "", "Indentation for decoded JSON: number of spaces or \"tab\" (default 4)")
	root.PersistentFlags().BoolVarP(&a.AssumeYes, "yes", "y", false, "Overwrite existing .sav files without asking")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		decode.NewCommand(a),
		encode.NewCommand(a),
		verify.NewCommand(a),
		roundtrip.NewCommand(a),
		get.NewCommand(a),
		get.NewShowCommand(a),
		set.NewCommand(a),
		saveconfig.NewCommand(a),
		completion.NewCommand(root, a),
	)

	a.Root = root
	return root
}

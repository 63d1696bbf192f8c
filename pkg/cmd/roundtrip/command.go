package roundtrip

import (
	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave test" command.
func NewCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "test FILE.sav",
		Short: "Decode and re-encode a save through files and compare the result",
		Long: `Decode FILE.sav to a compact FILE.json, encode that to FILE.resave and
compare it with the original byte for byte. The intermediate files are
deleted when the bytes match and kept for inspection when they do not.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidSaveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(a, args[0])
		},
	}
}

// Run performs the file-based round trip on path and returns
// savefile.ErrNotIdentical when the bytes differ.
func Run(a *app.App, path string) error {
	c, err := a.NewCodec()
	if err != nil {
		return err
	}
	p, err := a.NewProcessor(c, false)
	if err != nil {
		return err
	}
	v, err := p.RoundTrip(path)
	if err != nil {
		return err
	}
	if !v.Identical {
		return savefile.ErrNotIdentical
	}
	return nil
}

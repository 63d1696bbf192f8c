package verify

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave verify" command.
func NewCommand(a *app.App) *cobra.Command {
	var noHeaderFlag bool

	cmd := &cobra.Command{
		Use:   "verify FILE.sav...",
		Short: "Check in memory that saves survive a decode/encode round trip",
		Long: `Decode each save to compact text, encode it again and compare the result
with the original bytes. Nothing is written to disk. The exit status is
non-zero if any file does not reproduce exactly.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.ValidSaveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.NewCodec()
			if err != nil {
				return err
			}

			w := app.NewTabWriter(a.OutWriter)
			if !noHeaderFlag {
				fmt.Fprintf(w, "FILE\tSIZE\tVALID\tIDENTICAL\tFIRST DIFF\tBLAKE3\t\n")
			}

			var failed bool
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					failed = true
					fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\t\n", path, err)
					continue
				}
				v, err := c.Verify(data)
				if err != nil {
					failed = true
					fmt.Fprintf(w, "%s\t%d\t-\t-\t-\t%v\t\n", path, len(data), err)
					continue
				}
				if !v.Identical {
					failed = true
				}
				diff := "-"
				if v.FirstDiff >= 0 {
					diff = fmt.Sprint(v.FirstDiff)
				}
				fmt.Fprintf(w, "%s\t%d\t%t\t%t\t%s\t%s\t\n", path, v.OriginalSize, v.Valid, v.Identical, diff, v.OriginalDigest)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed {
				return savefile.ErrNotIdentical
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHeaderFlag, "no-headers", false, "Hide table headers")
	return cmd
}

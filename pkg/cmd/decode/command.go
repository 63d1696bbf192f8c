package decode

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		rawFlag    bool
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:   "decode FILE.sav...",
		Short: "Decode save files to JSON",
		Long: `Decode each save file to a .json file next to it. A save that does not
decipher to valid JSON is written to a .failed_decode.txt file instead so
it can be inspected.`,
		Example: `  davesave decode GameSave_00_GD.sav
  davesave decode --raw GameSave_00_GD.sav
  davesave decode GameSave_00_GD.sav -o - | less`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.ValidSaveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.NewCodec()
			if err != nil {
				return err
			}

			if outputFlag != "" {
				if len(args) != 1 {
					return fmt.Errorf("--output needs exactly one input file")
				}
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read save: %w", err)
				}
				decodeFn := c.Decode
				if rawFlag {
					decodeFn = c.DecodeCompact
				}
				res, err := decodeFn(data)
				if err != nil {
					return err
				}
				if !res.OK {
					return fmt.Errorf("decrypted data is not valid JSON: %w", res.Cause)
				}
				if outputFlag == "-" {
					_, err = fmt.Fprintln(a.OutWriter, res.Text)
					return err
				}
				return os.WriteFile(outputFlag, []byte(res.Text), 0644)
			}

			p, err := a.NewProcessor(c, false)
			if err != nil {
				return err
			}
			rep := savefile.Report{Failed: map[string]error{}}
			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				o, err := p.DecodeFile(path, !rawFlag)
				if err != nil {
					fmt.Fprintf(a.ErrWriter, "Error: %s: %v\n", path, err)
					rep.Failed[path] = err
					continue
				}
				rep.Outcomes = append(rep.Outcomes, o)
			}
			return rep.Err()
		},
	}

	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Write the compact JSON without pretty-printing")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to this file instead of FILE.json (\"-\" for stdout)")
	return cmd
}

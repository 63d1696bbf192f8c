package encode

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/codec"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		backupFlag   bool
		commentsFlag bool
		compactFlag  bool
		outputFlag   string
	)

	cmd := &cobra.Command{
		Use:   "encode FILE.json...",
		Short: "Encode JSON files to saves",
		Long: `Encode each .json file to a .sav file next to it. Whitespace outside
strings is removed, nothing else is changed. An existing .sav is only
replaced after confirmation unless --yes is given.`,
		Example: `  davesave encode GameSave_00_GD.json
  davesave encode --backup -y GameSave_00_GD.json
  davesave encode --comments annotated.json -o GameSave_00_GD.sav`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.ValidJSONArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.NewCodec(codec.WithComments(commentsFlag))
			if err != nil {
				return err
			}
			p, err := a.NewProcessor(c, backupFlag)
			if err != nil {
				return err
			}

			if outputFlag != "" {
				if len(args) != 1 {
					return fmt.Errorf("--output needs exactly one input file")
				}
				text, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read json: %w", err)
				}
				o, err := p.WriteSave(outputFlag, string(text), compactFlag)
				if err != nil {
					return err
				}
				if o.Skipped {
					fmt.Fprintf(a.OutWriter, "Kept existing '%s'.\n", outputFlag)
					return nil
				}
				fmt.Fprintf(a.OutWriter, "Encoded '%s' to '%s'.\n", args[0], outputFlag)
				return nil
			}

			rep := savefile.Report{Failed: map[string]error{}}
			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				o, err := p.EncodeFile(path, compactFlag)
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

	cmd.Flags().BoolVar(&backupFlag, "backup", false, "Back up an existing .sav before replacing it")
	cmd.Flags().BoolVar(&commentsFlag, "comments", false, "Strip // and /* */ comments and trailing commas first")
	cmd.Flags().BoolVar(&compactFlag, "compact", false, "Input is already compact; skip whitespace removal")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to this file instead of FILE.sav")
	return cmd
}

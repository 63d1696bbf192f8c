package get

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/edit"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave get" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		keysFlag   bool
		outputFlag = app.OutputFormatRaw
	)

	cmd := &cobra.Command{
		Use:   "get FILE [PATH]",
		Short: "Print the value at a key path",
		Long: `Print the JSON value at PATH in a .sav or .json file. PATH is a dotted
key path with [N] for array elements, e.g. "player.items[2].id". Without
PATH the whole document is printed. Values are printed exactly as stored.`,
		Example: `  davesave get GameSave_00_GD.sav PlayerInfo.Gold
  davesave get GameSave_00_GD.sav --keys
  davesave get GameSave_00_GD.json Inventory[0] -o pretty`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: a.ValidAnyArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			doc, err := load(a, args[0])
			if err != nil {
				return err
			}

			if keysFlag {
				names, err := edit.Keys(doc, path)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(a.OutWriter, name)
				}
				return nil
			}

			v, err := edit.Get(doc, path)
			if err != nil {
				return err
			}
			return a.Render(v.Raw, outputFlag)
		},
	}

	cmd.Flags().BoolVar(&keysFlag, "keys", false, "List the member names of the object at PATH instead")
	cmd.Flags().VarP(&outputFlag, "output", "o", "Output format: raw, pretty or color")
	_ = cmd.RegisterFlagCompletionFunc("output", app.CompleteOutputFormat)
	return cmd
}

// NewShowCommand returns the "davesave show" command, a colored view of
// a whole file.
func NewShowCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "show FILE",
		Short:             "Display a save with colors (keys sorted, for reading only)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidAnyArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(a, args[0])
			if err != nil {
				return err
			}
			return a.Render(doc, app.OutputFormatColor)
		},
	}
}

func load(a *app.App, path string) ([]byte, error) {
	c, err := a.NewCodec()
	if err != nil {
		return nil, err
	}
	text, err := savefile.Load(c, path)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

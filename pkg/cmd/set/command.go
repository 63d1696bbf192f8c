package set

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/edit"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave set" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		createFlag bool
		stringFlag bool
		backupFlag bool
	)

	cmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Replace the value at a key path in place",
		Long: `Replace the JSON value at PATH in a .sav or .json file and write the file
back in the same format. Every byte outside the replaced value is kept.
VALUE must be valid JSON unless --string is given.`,
		Example: `  davesave set GameSave_00_GD.sav PlayerInfo.Gold 99999999
  davesave set GameSave_00_GD.sav PlayerInfo.Name --string "Dave"
  davesave set --backup GameSave_00_GD.sav Flags.Tutorial false`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: a.ValidAnyArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, path, value := args[0], args[1], []byte(args[2])
			if stringFlag {
				quoted, err := json.Marshal(args[2])
				if err != nil {
					return err
				}
				value = quoted
			}

			c, err := a.NewCodec()
			if err != nil {
				return err
			}
			doc, err := savefile.Load(c, file)
			if err != nil {
				return err
			}
			updated, err := edit.Set([]byte(doc), path, value, createFlag)
			if err != nil {
				return err
			}

			p, err := a.NewProcessor(c, backupFlag)
			if err != nil {
				return err
			}
			// The file is being edited in place on purpose.
			p.Confirm = nil
			o, err := p.Store(file, string(updated), a.IndentUnit())
			if err != nil {
				return err
			}
			if o.BackupPath != "" {
				fmt.Fprintf(a.OutWriter, "Backed up '%s' to '%s'.\n", file, o.BackupPath)
			}
			fmt.Fprintf(a.OutWriter, "Set %s = %s in '%s'.\n", path, value, file)
			return nil
		},
	}

	cmd.Flags().BoolVar(&createFlag, "create", false, "Create the key if it does not exist")
	cmd.Flags().BoolVar(&stringFlag, "string", false, "Treat VALUE as a plain string and quote it")
	cmd.Flags().BoolVar(&backupFlag, "backup", false, "Back up a .sav before rewriting it")
	return cmd
}

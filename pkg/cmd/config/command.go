package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/app"
	"github.com/davesave/davesave/pkg/cipher"
	"github.com/davesave/davesave/pkg/savefile"
)

// NewCommand returns the "davesave config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle davesave configuration",
	}

	cmd.AddCommand(
		newShowCommand(a),
		newSetKeyCommand(a),
		newSetIndentCommand(a),
		newSetBackupCommand(a),
		newResetCommand(a),
	)

	return cmd
}

func newShowCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the saved settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			key := a.Cfg.Key
			if key == "" {
				key = cipher.DefaultKey
			}
			indent := fmt.Sprintf("%d spaces", len(a.Cfg.IndentUnit()))
			if a.Cfg.Indent < 0 {
				indent = "tab"
			}

			color := "auto"
			if a.Cfg.Color != nil {
				color = fmt.Sprint(*a.Cfg.Color)
			}

			w := app.NewTabWriter(a.OutWriter)
			fmt.Fprintf(w, "config\t%s\t\n", a.Cfg.Path())
			fmt.Fprintf(w, "key\t%s\t\n", key)
			fmt.Fprintf(w, "indent\t%s\t\n", indent)
			fmt.Fprintf(w, "failed-suffix\t%s\t\n", a.Cfg.FailedDecodeSuffix())
			fmt.Fprintf(w, "backup\t%t\t\n", a.Cfg.Backup)
			fmt.Fprintf(w, "backup-template\t%s\t\n", a.Cfg.BackupNameTemplate())
			fmt.Fprintf(w, "color\t%s\t\n", color)
			fmt.Fprintf(w, "assume-yes\t%t\t\n", a.Cfg.AssumeYes)
			w.Flush()
		},
	}
}

func newSetKeyCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key KEY",
		Short: "Set the XOR key used for saves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cipher.NewKey(args[0]); err != nil {
				return err
			}
			a.Cfg.Key = args[0]
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Key set to %q.\n", args[0])
			return nil
		},
	}
}

func newSetIndentCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:       "set-indent N|tab",
		Short:     "Set the indentation used when decoding",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"2", "4", "tab"},
		RunE: func(cmd *cobra.Command, args []string) error {
			indent, err := app.ParseIndent(args[0])
			if err != nil {
				return err
			}
			a.Cfg.Indent = indent
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Indent updated.")
			return nil
		},
	}
}

func newSetBackupCommand(a *app.App) *cobra.Command {
	var templateFlag string

	cmd := &cobra.Command{
		Use:       "set-backup on|off",
		Short:     "Turn automatic backups of overwritten saves on or off",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if templateFlag != "" {
				if _, err := savefile.NewBackupNamer(templateFlag, nil); err != nil {
					return err
				}
				a.Cfg.BackupTemplate = templateFlag
			}
			a.Cfg.Backup = args[0] == "on"
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Backups %s.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&templateFlag, "template", "", "Backup file name template (text/template with sprig functions)")
	return cmd
}

func newResetCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Cfg.Key = ""
			a.Cfg.Indent = 0
			a.Cfg.FailedSuffix = ""
			a.Cfg.Backup = false
			a.Cfg.BackupTemplate = ""
			a.Cfg.Color = nil
			a.Cfg.AssumeYes = false
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Configuration reset.")
			return nil
		},
	}
}

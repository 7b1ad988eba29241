package cli

import (
	"fmt"

	"notes-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	var defaults bool
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pathOnly {
				path, err := config.ResolvePath(app.ConfigPath)
				if err != nil {
					return writeErr(cmd, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			cfg := app.cfg
			if defaults {
				cfg = config.Default()
			}
			b, err := cfg.EncodeTOML()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults instead of the effective config")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "Print the config file path")
	return cmd
}

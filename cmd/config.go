package cmd

import (
	"errors"
	"fmt"
	"os"

	"chronoline/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, show and check configuration",
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, environment overrides included",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(app.ConfigFile)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.loadConfig(); err != nil {
				return err
			}
			colorSuccess().Fprintf(cmd.OutOrStdout(), "%s is valid\n", app.ConfigFile)
			return nil
		},
	})
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var (
		interactive bool
		force       bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `Writes the default configuration to the --config path. With --interactive a
short wizard asks for the era labels, palette, image width and initial window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.DefaultConfig()
			if interactive {
				var err error
				if cfg, err = config.RunWizard(nil, nil); err != nil {
					return err
				}
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			colorSuccess().Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run the configuration wizard")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ba0f3/menurag/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Write the resolved settings (defaults, environment and flags) to the config
file given by --config, or ~/.config/menurag/config.yml. API keys are left in
the environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("config")
		target := path
		if target == "" {
			p, err := config.GetConfigFilePath()
			if err != nil {
				return err
			}
			target = p
		}
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		config.LoadDotEnv()
		cfg := config.Defaults()
		cfg.ApplyEnv()
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", target)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

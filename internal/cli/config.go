// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Inspect and edit the configuration file.
//
// Usage:
//
//	chatbuddy config get KEY          Print one value (effective, with env overrides)
//	chatbuddy config set KEY VALUE    Change one value in the file
//	chatbuddy config list             Print every key and its effective value
//	chatbuddy config init [--force]   Write the default config and lexicon
//	chatbuddy config path             Print the config file location
//
// Keys use dot notation with the TOML names, e.g. ui.theme or chat.max_memory.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
	"github.com/jeranaias/chatbuddy/internal/util"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return &UsageError{Field: "key", Value: args[0], Reason: err.Error()}
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, path, err := resolveConfigPath()
		if err != nil {
			return &ConfigError{Path: "directory", Err: err}
		}

		cfg, err := config.ReadFile(path)
		if err != nil {
			return &ConfigError{Path: path, Err: err}
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return &UsageError{Field: "key", Value: args[0], Reason: err.Error()}
		}
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
		if err := config.Save(cfg, path); err != nil {
			return &ConfigError{Path: path, Err: err}
		}

		value, _ := cfg.Get(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(fmt.Sprintf("%s = %v", args[0], value)))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every config key and its value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", LabelStyle.Render(key), ValueStyle.Render(fmt.Sprint(value)))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config and sentiment lexicon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		dir, path, err := resolveConfigPath()
		if err != nil {
			return &ConfigError{Path: "directory", Err: err}
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		if err := writeUnlessExists(path, force, func() error {
			return config.Save(config.Default(), path)
		}); err != nil {
			return &ConfigError{Path: path, Err: err}
		}

		lexicon := config.Default().Paths(dir).Lexicon
		if err := writeUnlessExists(lexicon, force, func() error {
			return util.AtomicWriteFile(lexicon, sentiment.DefaultLexicon, 0644)
		}); err != nil {
			return fmt.Errorf("write lexicon: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.RenderSuccess("Wrote "+path))
		fmt.Fprintln(out, styles.RenderSuccess("Wrote "+lexicon))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, path, err := resolveConfigPath()
		if err != nil {
			return &ConfigError{Path: "directory", Err: err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite existing files")

	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd, configInitCmd, configPathCmd)
	RootCmd.AddCommand(configCmd)
}

// errFileExists is returned by config init for files it will not overwrite.
var errFileExists = errors.New("file exists (use --force to overwrite)")

func writeUnlessExists(path string, force bool, write func() error) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errFileExists)
		}
	}
	return write()
}

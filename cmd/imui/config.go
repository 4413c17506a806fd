package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/imui/internal/config"
	"github.com/vango-dev/imui/internal/errors"
)

func configCmd() *cobra.Command {
	var (
		path     string
		dir      string
		initFile bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
		Long: `Print the effective configuration as YAML.

The configuration is read from --config, or from the nearest imui.json,
imui.yaml or imui.yml in the working directory or its parents. Defaults
are shown when no file exists.

With --init, write a default imui.json instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if initFile {
				if config.Exists(dir) {
					return errors.Newf(errors.CategoryCLI, "a configuration file already exists in %s", dir)
				}
				target := filepath.Join(dir, config.ConfigFileName)
				if err := config.New().SaveTo(target); err != nil {
					return err
				}
				success(out, "Wrote %s", target)
				return nil
			}

			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			if cfg.Path() != "" {
				fmt.Fprintf(out, "# %s\n", cfg.Path())
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for --init")
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default imui.json")

	return cmd
}

// loadConfig reads path, or looks the configuration up from the working
// directory when path is empty. A missing file yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if e, ok := err.(*errors.Error); ok && e.Code == "E141" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

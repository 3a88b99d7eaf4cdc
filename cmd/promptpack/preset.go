package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage named file selections stored in " + configFileName,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readProjectConfig(rootDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		names := cfg.presetNames()
		if len(names) == 0 {
			fmt.Fprintln(out, "No presets saved.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintf(out, "%s\t(%d files)\n", name, len(cfg.Presets[name]))
		}
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print the files of a preset in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readProjectConfig(rootDir)
		if err != nil {
			return err
		}
		paths, ok := cfg.Presets[args[0]]
		if !ok {
			return fmt.Errorf("preset %q not found", args[0])
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save NAME [paths...]",
	Short: "Save the selection made from paths under NAME",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject(rootDir, selFlags, logger)
		if err != nil {
			return err
		}
		set, err := proj.selectPaths(args[1:], "")
		if err != nil {
			return err
		}
		if err := savePreset(proj.root, args[0], set.Paths()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %s (%d files)\n", args[0], set.Len())
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deletePreset(rootDir, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %s\n", args[0])
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetListCmd, presetShowCmd, presetSaveCmd, presetDeleteCmd)
}

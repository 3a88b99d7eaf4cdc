package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agusx1211/promptpack/prompt"
)

var countCmd = &cobra.Command{
	Use:   "count [paths...]",
	Short: "Print the token count of every selected file",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject(rootDir, selFlags, logger)
		if err != nil {
			return err
		}
		set, err := proj.selectPaths(args, selFlags.preset)
		if err != nil {
			return err
		}
		files, counts, err := proj.load(cmd.Context(), set)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatFileCounts(files, counts, proj.tokenizer.Count("")))

		sum := 0
		for _, n := range counts {
			sum += n
		}
		if warning := budgetWarning(sum, budgetFor(cmd, proj.cfg)); warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), warning)
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [paths...]",
	Short: "Print the tree summary of the selected files",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject(rootDir, selFlags, logger)
		if err != nil {
			return err
		}
		set, err := proj.selectPaths(args, selFlags.preset)
		if err != nil {
			return err
		}
		tree := prompt.RenderTree(prompt.BuildTree(set.Paths()))
		if strings.TrimSpace(tree) == "" {
			return fmt.Errorf("no files selected under %s", proj.root)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(tree, "\n"))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Change persistent settings",
}

var configOutputCmd = &cobra.Command{
	Use:   "output MODE",
	Short: "Set the default output mode (print, copy or ssh-copy) in ~/" + configFileName,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writeHomeDefaultOutputMode(args[0]); err != nil {
			return err
		}
		mode, _ := normalizeOutputMode(args[0])
		path, _ := defaultOutputConfigPath()
		fmt.Fprintf(cmd.OutOrStdout(), "Default output mode set to %s in %s\n", mode, path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configOutputCmd)
}

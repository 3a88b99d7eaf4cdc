package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agusx1211/promptpack/prompt"
)

var (
	rootDir  string
	verbose  bool
	selFlags selectionFlags
	logger   = slog.Default()
)

var (
	formatName        string
	lineNumbers       bool
	includeTree       bool
	header            string
	footer            string
	standardFooter    bool
	tokenBudget       int
	printOutput       bool
	copyOutput        bool
	sshCopyOutput     bool
	toFile            bool
	fileName          string
	tokenCount        bool
	tokenCountDetails bool
)

var rootCmd = &cobra.Command{
	Use:   "promptpack [paths...]",
	Short: "Promptpack bundles project files into a single LLM prompt",
	Long: `Promptpack takes files and directories under a project root and
formats them as one prompt in Markdown, XML or JSON, ready to paste into a
chat model. The model's reply can be written back with "promptpack import".

Directories are scanned recursively, honouring .gitignore and the patterns
in the project's .promptpack file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
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

		opts, err := promptOptions(cmd, proj.cfg)
		if err != nil {
			return err
		}
		output := prompt.Format(files, opts)
		total := proj.tokenizer.Count(output)
		logger.Debug("pack: formatted",
			slog.String("format", string(opts.Format)),
			slog.Int("files", len(files)),
			slog.Int("tokens", total.Tokens),
			slog.Bool("approximate", total.Approximate))

		if warning := budgetWarning(total.Tokens, budgetFor(cmd, proj.cfg)); warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), warning)
		}

		if tokenCount || tokenCountDetails {
			fmt.Fprint(cmd.OutOrStdout(), buildTokenReport(files, counts, total, tokenCountDetails))
			return nil
		}

		if toFile {
			name := fileName
			if name == "" {
				name = defaultOutputFileName(opts.Format)
			}
			if err := os.WriteFile(name, []byte(output), 0o644); err != nil {
				return fmt.Errorf("failed to write to file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s (%d tokens)\n", name, total.Tokens)
			return nil
		}

		defaultMode, err := defaultOutputMode(proj.cfg)
		if err != nil {
			logger.Warn("config: ignoring default output mode", slog.String("error", err.Error()))
			defaultMode = ""
		}
		mode, err := resolveOutputMode(defaultMode, printOutput, copyOutput, sshCopyOutput)
		if err != nil {
			return err
		}
		return emit(mode, output, total.Tokens, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// promptOptions merges the project config with any flags set on cmd.
func promptOptions(cmd *cobra.Command, cfg *projectConfig) (prompt.Options, error) {
	opts := prompt.Options{
		Format:      cfg.format(),
		LineNumbers: cfg.LineNumbers,
		Tree:        cfg.Tree,
		Header:      cfg.Header,
		Footer:      cfg.Footer,
	}
	appendNote := cfg.AppendStandardFooterNote

	flags := cmd.Flags()
	if flags.Changed("format") {
		f, ok := prompt.ParseOutputFormat(formatName)
		if !ok {
			return prompt.Options{}, fmt.Errorf("invalid format %q (expected markdown, xml, or json)", formatName)
		}
		opts.Format = f
	}
	if flags.Changed("line-numbers") {
		opts.LineNumbers = lineNumbers
	}
	if flags.Changed("tree") {
		opts.Tree = includeTree
	}
	if flags.Changed("header") {
		opts.Header = header
	}
	if flags.Changed("footer") {
		opts.Footer = footer
	}
	if flags.Changed("standard-footer") {
		appendNote = standardFooter
	}
	if appendNote {
		opts.Footer = prompt.WithStandardFooter(opts.Footer, opts.Format)
	}
	return opts, nil
}

func budgetFor(cmd *cobra.Command, cfg *projectConfig) int {
	if f := cmd.Flags().Lookup("budget"); f != nil && f.Changed {
		return tokenBudget
	}
	return cfg.tokenBudget()
}

func defaultOutputFileName(format prompt.OutputFormat) string {
	ext := ".md"
	switch format {
	case prompt.FormatXML:
		ext = ".xml"
	case prompt.FormatJSON:
		ext = ".json"
	}
	return filepath.Join(".", "prompt"+ext)
}

func emit(mode, output string, tokenTotal int, stdout, stderr io.Writer) error {
	switch mode {
	case outputModeCopy:
		if err := copyToClipboard(output); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Copied %d tokens to the clipboard\n", tokenTotal)
	case outputModeSSHCopy:
		if err := copyToOSC52(stdout, output); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Sent %d tokens to the terminal clipboard\n", tokenTotal)
	default:
		fmt.Fprint(stdout, output)
		if len(output) > 0 && output[len(output)-1] != '\n' {
			fmt.Fprintln(stdout)
		}
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootDir, "root", ".", "Project root; selected and imported paths are relative to it")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	pf.BoolVarP(&selFlags.includeGitIgnore, "include-gitignore", "i", false, "Include files that would normally be ignored by .gitignore")
	pf.BoolVarP(&selFlags.includeGit, "include-git", "g", false, "Include .git directory and its contents")
	pf.BoolVar(&selFlags.includeBin, "include-bin", false, "Include binary files")
	pf.StringArrayVar(&selFlags.include, "include", nil, "Only include files matching this glob (repeatable)")
	pf.StringArrayVar(&selFlags.exclude, "exclude", nil, "Exclude files matching this glob; a trailing / excludes a directory (repeatable)")
	pf.StringVar(&selFlags.profile, "profile", "", "Profile from .promptpack to apply")
	pf.StringVar(&selFlags.preset, "preset", "", "Use the files saved under this preset instead of paths")
	pf.StringVar(&selFlags.model, "model", "", "Tokenizer model (default gpt-4o-mini)")

	f := rootCmd.Flags()
	f.StringVarP(&formatName, "format", "F", string(prompt.FormatMarkdown), "Prompt format: markdown, xml or json")
	f.BoolVarP(&lineNumbers, "line-numbers", "l", false, "Prefix every line with its line number")
	f.BoolVarP(&includeTree, "tree", "t", false, "Include a project tree (markdown and json)")
	f.StringVar(&header, "header", "", "Text placed before the files")
	f.StringVar(&footer, "footer", "", "Text placed after the files")
	f.BoolVar(&standardFooter, "standard-footer", false, "Append a note asking the model to reply in the same format")
	f.IntVar(&tokenBudget, "budget", defaultTokenBudget, "Warn when the prompt exceeds this many tokens (0 disables)")
	f.BoolVar(&printOutput, "print", false, "Print the prompt to stdout")
	f.BoolVar(&copyOutput, "copy", false, "Copy the prompt to the system clipboard")
	f.BoolVar(&sshCopyOutput, "ssh-copy", false, "Copy the prompt through the terminal (OSC 52), works over SSH")
	f.BoolVarP(&toFile, "to-file", "f", false, "Write the prompt to a file instead")
	f.StringVarP(&fileName, "file-name", "n", "", "Output file name (only used with --to-file; default prompt.<ext>)")
	f.BoolVar(&tokenCount, "tcount", false, "Print the prompt's token count instead of the prompt")
	f.BoolVar(&tokenCountDetails, "tcount-detailed", false, "Print a token breakdown by directory and file")

	rootCmd.AddCommand(importCmd, countCmd, treeCmd, presetCmd, watchCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

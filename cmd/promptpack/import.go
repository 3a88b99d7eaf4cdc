package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agusx1211/promptpack/importer"
	"github.com/agusx1211/promptpack/prompt"
)

var (
	importFormat string
	importDryRun bool
	importDiff   bool
	importYes    bool
)

type importOptions struct {
	root    string
	format  string
	dryRun  bool
	diff    bool
	confirm bool
}

// confirmFunc asks whether n pending changes may be written.
type confirmFunc func(n int) (bool, error)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Write the files in a model reply back into the project",
	Long: `Import parses a model reply in XML, JSON or Markdown form and writes
every file it contains under the project root. The reply is read from the
named file, from piped stdin ("-" forces stdin), or from the clipboard.
Paths that would escape the root are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readProjectConfig(rootDir)
		if err != nil {
			return err
		}

		src := newImportSource()
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		text, label, err := src.read(file)
		if err != nil {
			return err
		}
		logger.Debug("import: read input", slog.String("source", label), slog.Int("bytes", len(text)))

		opts := importOptions{
			root:    rootDir,
			format:  importFormat,
			dryRun:  importDryRun,
			diff:    importDiff,
			confirm: cfg.requireImportConfirmation() && !importYes,
		}
		confirm := terminalConfirm(os.Stdin, cmd.ErrOrStderr())
		if src.piped || label == "stdin" {
			confirm = func(int) (bool, error) {
				return false, errors.New("stdin is not a terminal; rerun with --yes to apply")
			}
		}
		return runImport(text, opts, confirm, cmd.OutOrStdout(), logger)
	},
}

func runImport(text string, opts importOptions, confirm confirmFunc, out io.Writer, logger *slog.Logger) error {
	if strings.TrimSpace(text) == "" {
		return importer.ErrNothingToImport
	}

	var files []prompt.FileContent
	var format prompt.OutputFormat
	if opts.format != "" {
		f, ok := prompt.ParseOutputFormat(opts.format)
		if !ok {
			return fmt.Errorf("invalid format %q (expected markdown, xml, or json)", opts.format)
		}
		format = f
		files = importer.Parse(text, format)
	} else {
		files, format = importer.Detect(text)
	}
	logger.Info("import: parsed reply", slog.String("format", string(format)), slog.Int("files", len(files)))

	plan, err := importer.NewPlan(opts.root, files)
	if err != nil {
		return err
	}

	for _, c := range plan.Changes {
		fmt.Fprintf(out, "%-9s %s\n", c.Action, c.Path)
		if opts.diff && c.Action != importer.ActionUnchanged {
			fmt.Fprint(out, indent(c.Diff(), "    "))
		}
	}
	for _, p := range plan.Rejected {
		fmt.Fprintf(out, "%-9s %s (outside root)\n", "skip", p)
	}

	pending := len(plan.Pending())
	if pending == 0 {
		fmt.Fprintln(out, "Nothing to write.")
		return nil
	}
	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %d file(s) would be written.\n", pending)
		return nil
	}
	if opts.confirm {
		ok, err := confirm(pending)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	written, err := importer.Apply(plan, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d file(s) (%d created, %d modified).\n",
		written, plan.Count(importer.ActionCreate), plan.Count(importer.ActionModify))
	return nil
}

func terminalConfirm(in io.Reader, out io.Writer) confirmFunc {
	return func(n int) (bool, error) {
		fmt.Fprintf(out, "Write %d file(s)? [y/N] ", n)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

func indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "F", "", "Parse only this format (markdown, xml, json) instead of detecting it")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would change without writing")
	importCmd.Flags().BoolVar(&importDiff, "diff", false, "Show a line diff for every created or modified file")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Apply without asking for confirmation")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dusk/internal/driver"
	"dusk/internal/project"
	"dusk/internal/ui"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.dk|dir",
	Short: "Tokenize a dusk source file",
	Long:  `Tokenize breaks down a dusk source file into its constituent tokens`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().Bool("dump", true, "print the token buffer")
	tokenizeCmd.Flags().Int("jobs", 0, "parallel workers for directory mode (0 = NumCPU)")
	tokenizeCmd.Flags().String("snapshot-dir", "", "write msgpack token snapshots into this cache directory")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	opts := driver.Options{
		DiagnosticsTo: os.Stderr,
		Color:         useColor(cmd, os.Stderr),
	}

	// The project manifest, if any, supplies the prelude default for
	// the downstream phases.
	if manifest, found, err := project.Discover("."); err != nil {
		return err
	} else if found && manifest.Compiler.Stds != "" {
		stds := cmd.Root().PersistentFlags().Lookup("stds")
		if stds != nil && stds.Value.String() == "" {
			_ = stds.Value.Set(manifest.Compiler.Stds)
		}
	}

	if len(args) == 0 {
		result := driver.TokenizeStdin(os.Stdin, opts)
		return finishSingle(cmd, result)
	}

	path := args[0]
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return runTokenizeDir(cmd, path, opts)
	}

	result := driver.Tokenize(path, opts)
	return finishSingle(cmd, result)
}

func finishSingle(cmd *cobra.Command, result *driver.Result) error {
	if result.Buffer != nil {
		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			result.Buffer.Print(os.Stdout)
		}
		if err := writeSnapshot(cmd, result); err != nil {
			return err
		}
	}
	if result.SeenError {
		return fmt.Errorf("tokenization reported errors")
	}
	return nil
}

func runTokenizeDir(cmd *cobra.Command, dir string, opts driver.Options) error {
	jobs, _ := cmd.Flags().GetInt("jobs")

	// Directory mode buffers diagnostics per file; print them here in
	// path order.
	opts.DiagnosticsTo = nil
	results, err := driver.TokenizeDir(dir, opts, jobs)
	if err != nil {
		return err
	}

	summaries := make([]ui.FileSummary, 0, len(results))
	anyError := false
	for _, r := range results {
		if r.Diagnostics != "" {
			fmt.Fprint(os.Stderr, r.Diagnostics)
		}
		tokens := 0
		if r.Buffer != nil {
			tokens = r.Buffer.Len()
			if err := writeSnapshot(cmd, r); err != nil {
				return err
			}
		}
		anyError = anyError || r.SeenError
		summaries = append(summaries, ui.FileSummary{
			Path:     r.Path,
			Tokens:   tokens,
			HasError: r.SeenError,
		})
	}

	fmt.Fprint(os.Stdout, ui.RenderTokenizeSummary("tokenize "+dir, summaries))
	if anyError {
		return fmt.Errorf("tokenization reported errors")
	}
	return nil
}

func writeSnapshot(cmd *cobra.Command, result *driver.Result) error {
	dir, _ := cmd.Flags().GetString("snapshot-dir")
	if dir == "" || result.Buffer == nil {
		return nil
	}
	cache := driver.NewSnapshotCache(dir)
	if err := cache.Put(driver.SnapshotOf(result.Buffer)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

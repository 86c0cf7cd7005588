package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dusk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dusk",
	Short: "Dusk language compiler front end",
	Long:  `Dusk is a programming language compiler with diagnostic tools`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("stds", "", "override the standard prelude path")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (parsed; no limit is applied)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the stream.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

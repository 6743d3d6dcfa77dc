// Package cli defines the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"bilingual-subtitler/internal/logger"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "bilingual-subtitler",
	Short: "Translate subtitle files into bilingual subtitles with Gemini",
	Long: `bilingual-subtitler turns a monolingual SRT file into a bilingual one,
pairing each source line with its translation. Long files are translated in
chunks with progress checkpointed to disk, so an interrupted run resumes
where it left off instead of starting over.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDebug(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

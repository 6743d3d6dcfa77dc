package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bilingual-subtitler/models"
	"bilingual-subtitler/services"
)

var burnOutput string

var burnCmd = &cobra.Command{
	Use:   "burn <video> <subtitles.srt>",
	Short: "Burn a bilingual SRT into a video file",
	Args:  cobra.ExactArgs(2),
	RunE:  runBurn,
}

func init() {
	burnCmd.Flags().StringVarP(&burnOutput, "output", "o", "", "output video path (default <video>_subtitled.<ext>)")
	rootCmd.AddCommand(burnCmd)
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath, srtPath := args[0], args[1]
	for _, p := range []string{videoPath, srtPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	cfg, err := models.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	output := burnOutput
	if output == "" {
		ext := filepath.Ext(videoPath)
		output = strings.TrimSuffix(videoPath, ext) + "_subtitled" + ext
	}

	ffmpeg := services.NewFFmpegServiceWithPaths(cfg.FFmpegPath, cfg.FFprobePath)
	if err := ffmpeg.CheckInstalled(); err != nil {
		return err
	}
	if err := ffmpeg.BurnSubtitles(videoPath, srtPath, output); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", output)
	return nil
}

package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"bilingual-subtitler/internal/logger"
)

// FFmpegService burns bilingual subtitles into video files.
type FFmpegService struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpegService() *FFmpegService {
	return &FFmpegService{
		ffmpegPath:  findTool("ffmpeg"),
		ffprobePath: findTool("ffprobe"),
	}
}

func NewFFmpegServiceWithPaths(ffmpegPath, ffprobePath string) *FFmpegService {
	if ffmpegPath == "" {
		ffmpegPath = findTool("ffmpeg")
	}
	if ffprobePath == "" {
		ffprobePath = findTool("ffprobe")
	}
	return &FFmpegService{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// findTool checks common install locations before falling back to PATH.
func findTool(name string) string {
	paths := []string{
		"/opt/homebrew/bin/" + name,
		"/usr/local/bin/" + name,
		"/usr/bin/" + name,
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}

// CheckInstalled verifies ffmpeg is available.
func (s *FFmpegService) CheckInstalled() error {
	cmd := exec.Command(s.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", s.ffmpegPath, err)
	}
	return nil
}

// ProbeResolution returns the video's width and height via ffprobe.
func (s *FFmpegService) ProbeResolution(videoPath string) (int, int, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		videoPath,
	}
	out, err := exec.Command(s.ffprobePath, args...).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}

	parts := strings.Split(strings.TrimSpace(string(out)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output: %q", string(out))
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected ffprobe width: %q", parts[0])
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected ffprobe height: %q", parts[1])
	}
	return width, height, nil
}

// subtitleStyle scales the burned-in font with the video height so 4K and
// 720p output look the same.
func subtitleStyle(height int) string {
	fontSize := 20
	if height >= 2160 {
		fontSize = 40
	} else if height >= 1080 {
		fontSize = 26
	}
	return fmt.Sprintf("FontSize=%d,OutlineColour=&H80000000,BorderStyle=3,MarginV=%d", fontSize, fontSize)
}

// hasEncoder reports whether the local ffmpeg build lists the named encoder.
func (s *FFmpegService) hasEncoder(name string) bool {
	out, err := exec.Command(s.ffmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), name)
}

// videoEncoder picks a hardware encoder when the local build carries one.
func (s *FFmpegService) videoEncoder() []string {
	if runtime.GOOS == "darwin" && s.hasEncoder("h264_videotoolbox") {
		return []string{"-c:v", "h264_videotoolbox", "-b:v", "8M"}
	}
	if s.hasEncoder("h264_vaapi") {
		return []string{"-vaapi_device", "/dev/dri/renderD128", "-c:v", "h264_vaapi"}
	}
	return []string{"-c:v", "libx264", "-crf", "18", "-preset", "medium"}
}

// escapeFilterPath escapes characters the subtitles filter treats specially.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return replacer.Replace(path)
}

// buildBurnArgs assembles the ffmpeg invocation for burning srtPath into
// videoPath.
func buildBurnArgs(videoPath, srtPath, outputPath string, height int, encoder []string) []string {
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(srtPath), subtitleStyle(height))

	args := []string{
		"-i", videoPath,
		"-vf", filter,
	}
	args = append(args, encoder...)
	args = append(args,
		"-c:a", "copy",
		"-y",
		outputPath,
	)
	return args
}

// BurnSubtitles renders srtPath into the video stream and writes outputPath.
func (s *FFmpegService) BurnSubtitles(videoPath, srtPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	_, height, err := s.ProbeResolution(videoPath)
	if err != nil {
		logger.Warn("Could not probe resolution, using default subtitle style: %v", err)
		height = 1080
	}

	args := buildBurnArgs(videoPath, srtPath, outputPath, height, s.videoEncoder())
	logger.Debug("ffmpeg %s", strings.Join(args, " "))

	cmd := exec.Command(s.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle burn failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

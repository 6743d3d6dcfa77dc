package subtitle

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regex for timestamp parsing
var timeRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,\.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,\.]\d{3})`)

// ParseSRT parses SRT content from a reader.
func ParseSRT(r io.Reader) (List, error) {
	var subtitles List
	scanner := bufio.NewScanner(r)

	// SRT format:
	// 1
	// 00:00:00,000 --> 00:00:02,500
	// Text here
	//
	// 2
	// ...

	var currentSub *Subtitle
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if currentSub != nil && currentSub.Text != "" {
				subtitles = append(subtitles, *currentSub)
			}
			currentSub = nil
			lineNum = 0
			continue
		}

		lineNum++

		switch lineNum {
		case 1:
			// Index line
			index, err := strconv.Atoi(line)
			if err == nil {
				currentSub = &Subtitle{Index: index}
			}
		case 2:
			// Timestamp line
			if currentSub != nil {
				matches := timeRegex.FindStringSubmatch(line)
				if len(matches) == 3 {
					currentSub.StartTime = ParseTimestamp(matches[1])
					currentSub.EndTime = ParseTimestamp(matches[2])
				}
			}
		default:
			// Text lines
			if currentSub != nil {
				if currentSub.Text != "" {
					currentSub.Text += " "
				}
				currentSub.Text += line
			}
		}
	}

	// Don't forget the last subtitle
	if currentSub != nil && currentSub.Text != "" {
		subtitles = append(subtitles, *currentSub)
	}

	return subtitles, scanner.Err()
}

// ParseSRTFile parses an SRT file from the given path.
func ParseSRTFile(path string) (List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseSRT(file)
}

// FormatBilingualSRT renders translated entries as a bilingual SRT: index,
// timing, source-language line, target-language line. Entries with no text in
// either language are skipped and the output is renumbered sequentially.
// Timing comes from the Start/End strings, which survive a checkpoint round
// trip; the raw durations do not.
func FormatBilingualSRT(entries BilingualList) string {
	var builder strings.Builder
	counter := 1
	for _, e := range entries {
		src := strings.TrimSpace(e.Source)
		tgt := strings.TrimSpace(e.Translation)
		if src == "" && tgt == "" {
			continue
		}

		start := e.Start
		if start == "" {
			start = FormatTimestamp(e.StartTime)
		}
		end := e.End
		if end == "" {
			end = FormatTimestamp(e.EndTime)
		}

		builder.WriteString(strconv.Itoa(counter))
		builder.WriteString("\n")
		builder.WriteString(start)
		builder.WriteString(" --> ")
		builder.WriteString(end)
		builder.WriteString("\n")
		if src != "" {
			builder.WriteString(src)
			builder.WriteString("\n")
		}
		if tgt != "" {
			builder.WriteString(tgt)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
		counter++
	}
	return builder.String()
}

// WriteBilingualSRTFile writes translated entries to a bilingual SRT file.
func WriteBilingualSRTFile(path string, entries BilingualList) error {
	return os.WriteFile(path, []byte(FormatBilingualSRT(entries)), 0644)
}

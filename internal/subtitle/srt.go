package subtitle

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/SarahRoseLives/hacktv/internal/herr"
)

// LoadSRT reads a SubRip (.srt) file into a List. SRT is the one subtitle
// format FFmpeg can emit to a pipe for any text-subtitle stream, so it is
// both the external file format and the extraction interchange format.
func LoadSRT(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, herr.Wrap(herr.IoError, "subtitle: open srt file", err)
	}
	defer f.Close()
	return ParseSRT(f)
}

// ParseSRT parses SubRip cues from r. Malformed blocks are skipped rather
// than failing the whole file, since broadcast subtitle files are often
// hand-edited.
func ParseSRT(r io.Reader) (*List, error) {
	var cues []Cue
	sc := bufio.NewScanner(r)

	var cur *Cue
	var text []string
	flush := func() {
		if cur != nil && len(text) > 0 {
			cur.Text = strings.Join(text, "\n")
			cues = append(cues, *cur)
		}
		cur, text = nil, nil
	}

	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		switch {
		case line == "":
			flush()
		case strings.Contains(line, "-->"):
			from, to, ok := parseTimeRange(line)
			if !ok {
				cur = nil
				continue
			}
			cur = &Cue{Start: from, End: to}
		case cur != nil:
			text = append(text, line)
		default:
			// Cue sequence number, ignored.
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, herr.Wrap(herr.IoError, "subtitle: read srt", err)
	}
	return NewList(cues), nil
}

func parseTimeRange(line string) (from, to time.Duration, ok bool) {
	a, b, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}
	from, ok = parseTimestamp(strings.TrimSpace(a))
	if !ok {
		return 0, 0, false
	}
	fields := strings.Fields(b)
	if len(fields) == 0 {
		return 0, 0, false
	}
	to, ok = parseTimestamp(fields[0])
	return from, to, ok
}

// parseTimestamp reads SRT's HH:MM:SS,mmm form (a '.' millisecond
// separator is also accepted).
func parseTimestamp(s string) (time.Duration, bool) {
	s = strings.Replace(s, ".", ",", 1)
	hms, ms, found := strings.Cut(s, ",")
	if !found {
		return 0, false
	}
	parts := strings.Split(hms, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	milli, err4 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, false
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(milli)*time.Millisecond, true
}

// ExtractFFmpeg pulls text-subtitle stream streamIndex out of input by
// running FFmpeg with an SRT pipe output and parsing what it writes.
// FFmpeg remains the external media-processing collaborator here, the
// same subprocess boundary the feed pipeline's capture source uses.
func ExtractFFmpeg(input string, streamIndex int, startOffset time.Duration) (*List, error) {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if startOffset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(startOffset.Seconds(), 'f', 3, 64))
	}
	args = append(args, "-i", input,
		"-map", "0:s:"+strconv.Itoa(streamIndex),
		"-f", "srt", "-")

	cmd := exec.Command("ffmpeg", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, herr.Wrap(herr.IoError, "subtitle: ffmpeg stdout pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, herr.Wrap(herr.IoError, "subtitle: start ffmpeg", err)
	}
	list, parseErr := ParseSRT(out)
	if err := cmd.Wait(); err != nil {
		return nil, herr.Wrap(herr.DecodeError, "subtitle: extract stream", err)
	}
	return list, parseErr
}

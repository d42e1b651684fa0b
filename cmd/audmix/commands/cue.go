// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var errNoInput = errors.New("no input files, pass files or --timing")

// cue is one file and when it starts relative to the first one.
type cue struct {
	Path   string
	Offset time.Duration
}

// label names the track after the file.
func (c cue) label() string {
	return strings.TrimSuffix(filepath.Base(c.Path), filepath.Ext(c.Path))
}

func parseOffset(s string) (time.Duration, error) {
	ms, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	if ms < 0 {
		return 0, fmt.Errorf("invalid offset %q: must not be negative", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseCue splits "path[@offset_ms]". An '@' not followed by digits is part
// of the path.
func parseCue(arg string) (cue, error) {
	i := strings.LastIndexByte(arg, '@')
	if i < 0 {
		return cue{Path: arg}, nil
	}
	suffix := arg[i+1:]
	if suffix == "" || strings.Trim(suffix, "-0123456789") != "" {
		return cue{Path: arg}, nil
	}
	off, err := parseOffset(suffix)
	if err != nil {
		return cue{}, err
	}
	if arg[:i] == "" {
		return cue{}, fmt.Errorf("missing path in %q", arg)
	}
	return cue{Path: arg[:i], Offset: off}, nil
}

// loadTiming reads "path offset_ms" lines. Relative paths are resolved
// against the timing file's directory. Blank lines and lines starting with
// '#' are skipped.
func loadTiming(path string) ([]cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var cues []cue
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: want \"path offset_ms\", got %q", path, n, line)
		}
		off, err := parseOffset(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		p := fields[0]
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		cues = append(cues, cue{Path: p, Offset: off})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cues, nil
}

// collectCues merges the timing file, if any, with positional arguments.
func collectCues(timing string, args []string) ([]cue, error) {
	var cues []cue
	if timing != "" {
		tc, err := loadTiming(timing)
		if err != nil {
			return nil, err
		}
		cues = tc
	}
	for _, a := range args {
		c, err := parseCue(a)
		if err != nil {
			return nil, err
		}
		cues = append(cues, c)
	}
	if len(cues) == 0 {
		return nil, errNoInput
	}
	return cues, nil
}

package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines. maxLines <= 0 returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// timeLayout matches log.LstdFlags.
const timeLayout = "2006/01/02 15:04:05"

// Entry is one parsed activity line.
type Entry struct {
	Time      time.Time
	RequestID string
	Op        string
	ID        string
	Outcome   string
	Err       string
	Raw       string
}

// Parse splits an activity line of the form
//
//	2026/01/02 15:04:05 request=<id> op=<name> [id=<n>] outcome=<o> [err=<text>]
//
// Lines in any other shape come back with only Raw set. err runs to the end
// of the line.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := line
	if len(rest) >= len(timeLayout) {
		if ts, err := time.ParseInLocation(timeLayout, rest[:len(timeLayout)], time.Local); err == nil {
			e.Time = ts
			rest = strings.TrimSpace(rest[len(timeLayout):])
		}
	}

	for rest != "" {
		key, value, ok := strings.Cut(rest, "=")
		if !ok || strings.ContainsRune(key, ' ') {
			break
		}
		if key == "err" {
			e.Err = value
			break
		}
		value, rest, _ = strings.Cut(value, " ")
		switch key {
		case "request":
			e.RequestID = value
		case "op":
			e.Op = value
		case "id":
			e.ID = value
		case "outcome":
			e.Outcome = value
		}
	}
	return e
}

// ReadEntries reads and parses the last maxLines of the activity log.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

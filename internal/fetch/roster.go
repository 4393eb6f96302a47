package fetch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"disclosures/internal/domain"
)

// rosterNoiseMarkers flag scraped chrome that must be removed before the
// alternating name/party lines can be paired.
var rosterNoiseMarkers = []string{"Transactions", "View", "photo"}

// ParseRoster reads the scraped representative roster: alternating lines
// of representative name and party-and-chamber description, interleaved
// with noise lines from the scrape. Noise and blank lines are dropped
// first, then the remainder is paired in order. A dangling trailing name
// without a party line is discarded.
func ParseRoster(r io.Reader) ([]domain.RosterEntry, error) {
	scanner := bufio.NewScanner(r)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isRosterNoise(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	entries := make([]domain.RosterEntry, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		entries = append(entries, domain.RosterEntry{
			Representative: lines[i],
			RawParty:       lines[i+1],
		})
	}
	return entries, nil
}

// LoadRoster parses a roster file from disk.
func LoadRoster(path string) ([]domain.RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	entries, err := ParseRoster(f)
	if err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	return entries, nil
}

func isRosterNoise(line string) bool {
	for _, marker := range rosterNoiseMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

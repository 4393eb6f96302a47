// Package dataset turns raw disclosure feed records into the typed,
// filtered transaction set the analysis runs on. Data-quality problems
// are drop-and-count, never errors: unparseable dates null out, records
// failing an invariant are removed and tallied.
package dataset

import (
	"log/slog"
	"strings"
	"time"

	"disclosures/internal/domain"
)

// missingSentinel is the literal the feed uses for absent values.
const missingSentinel = "--"

// feedDateLayouts are the date formats seen in the disclosure feed:
// transaction dates are ISO, disclosure dates are US-style.
var feedDateLayouts = []string{"2006-01-02", "01/02/2006"}

// CleanStats accounts for every raw record: kept plus the per-reason
// drop counts equals the raw total.
type CleanStats struct {
	Raw              int
	Kept             int
	DroppedOldYear   int // transaction year before the cutoff (includes unparseable dates)
	DroppedNoRoster  int // representative absent from the roster
	DroppedBadParty  int // roster party string did not normalize
}

// Cleaner applies the cleaning and filtering pass. The roster join uses
// exact representative-name matching with inner-join semantics.
type Cleaner struct {
	minYear int
	roster  map[string]string
	logger  *slog.Logger
}

// NewCleaner builds a cleaner for the given year cutoff and roster.
// Duplicate roster names keep the first entry.
func NewCleaner(minYear int, roster []domain.RosterEntry, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]string, len(roster))
	for _, entry := range roster {
		if _, ok := byName[entry.Representative]; !ok {
			byName[entry.Representative] = entry.RawParty
		}
	}
	return &Cleaner{minYear: minYear, roster: byName, logger: logger}
}

// Clean converts raw feed records into typed transactions, enforcing the
// year and party invariants. Every returned transaction satisfies
// IsClean(minYear).
func (c *Cleaner) Clean(raw []domain.RawTransaction) ([]domain.Transaction, CleanStats) {
	stats := CleanStats{Raw: len(raw)}
	cleaned := make([]domain.Transaction, 0, len(raw))

	for _, r := range raw {
		tx := domain.Transaction{
			Representative:  strings.TrimSpace(recodeMissing(r.Representative)),
			Ticker:          recodeMissing(r.Ticker),
			Amount:          recodeMissing(r.Amount),
			Type:            recodeMissing(r.Type),
			CapGainsOver200: r.CapGainsOver200,
		}

		tx.TransactionDate = parseFeedDate(r.TransactionDate)
		tx.DisclosureDate = parseFeedDate(r.DisclosureDate)
		if !tx.TransactionDate.IsZero() {
			tx.TransactionYear = tx.TransactionDate.Year()
		}

		// A zero year from an unparseable date fails the cutoff too.
		if tx.TransactionYear < c.minYear {
			stats.DroppedOldYear++
			continue
		}

		rawParty, ok := c.roster[tx.Representative]
		if !ok {
			stats.DroppedNoRoster++
			continue
		}

		party, ok := domain.ParseParty(rawParty)
		if !ok {
			stats.DroppedBadParty++
			continue
		}
		tx.Party = party

		cleaned = append(cleaned, tx)
	}

	stats.Kept = len(cleaned)
	c.logger.Info("cleaned disclosure records",
		"raw", stats.Raw,
		"kept", stats.Kept,
		"dropped_old_year", stats.DroppedOldYear,
		"dropped_no_roster", stats.DroppedNoRoster,
		"dropped_bad_party", stats.DroppedBadParty,
	)
	return cleaned, stats
}

// recodeMissing maps the feed's missing-value sentinel to the empty string.
func recodeMissing(value string) string {
	if value == missingSentinel {
		return ""
	}
	return value
}

// parseFeedDate parses a feed date, returning the zero time on failure
// so downstream year filtering excludes the record naturally.
func parseFeedDate(value string) time.Time {
	value = recodeMissing(strings.TrimSpace(value))
	if value == "" {
		return time.Time{}
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

package features

import (
	"log/slog"

	"disclosures/internal/domain"
)

// Affinity codes emitted by the ticker encoder.
const (
	AffinityNone       = 0
	AffinityLeaning    = 1 // Democrat-leaning, or any flagged ticker in legacy order
	AffinityRepublican = 2
)

// AffinityEncoder codes a ticker by which party's trades dominate it.
// A ticker leans toward a party when that party's share of the ticker's
// trades exceeds the threshold.
//
// Fitting inspects party labels, so an encoder fitted on the full
// dataset leaks outcome statistics into a feature. Callers choose the
// fitting rows; see the TrainOnlyAffinity setting.
//
// The encoding historically checked membership in the combined leaning
// set before the Republican set, which leaves the Republican branch
// unreachable for any ticker in both. legacyBranchOrder keeps that
// precedence for comparability with earlier runs; disabling it checks
// the party sets directly.
type AffinityEncoder struct {
	threshold         float64
	legacyBranchOrder bool

	leaning    map[string]bool // every ticker that cleared the threshold for any party
	democrat   map[string]bool
	republican map[string]bool
}

// FitAffinity computes per-ticker party proportions over the given
// transactions and fixes the leaning sets. Records without a ticker are
// ignored.
func FitAffinity(txs []domain.Transaction, threshold float64, legacyBranchOrder bool, logger *slog.Logger) *AffinityEncoder {
	if logger == nil {
		logger = slog.Default()
	}

	counts := make(map[string]map[domain.Party]int)
	totals := make(map[string]int)
	for _, tx := range txs {
		if !tx.HasTicker() {
			continue
		}
		if counts[tx.Ticker] == nil {
			counts[tx.Ticker] = make(map[domain.Party]int)
		}
		counts[tx.Ticker][tx.Party]++
		totals[tx.Ticker]++
	}

	enc := &AffinityEncoder{
		threshold:         threshold,
		legacyBranchOrder: legacyBranchOrder,
		leaning:           make(map[string]bool),
		democrat:          make(map[string]bool),
		republican:        make(map[string]bool),
	}

	for ticker, byParty := range counts {
		total := totals[ticker]
		for party, n := range byParty {
			if float64(n)/float64(total) <= threshold {
				continue
			}
			enc.leaning[ticker] = true
			switch party {
			case domain.PartyDemocrat:
				enc.democrat[ticker] = true
			case domain.PartyRepublican:
				enc.republican[ticker] = true
			}
		}
	}

	logger.Debug("fitted ticker affinity encoder",
		"tickers", len(totals),
		"leaning", len(enc.leaning),
		"democrat", len(enc.democrat),
		"republican", len(enc.republican),
		"threshold", threshold,
		"legacy_branch_order", legacyBranchOrder,
	)
	return enc
}

// Code returns the affinity code for a ticker. Unknown and empty tickers
// code as AffinityNone.
func (e *AffinityEncoder) Code(ticker string) int {
	if ticker == "" {
		return AffinityNone
	}
	if e.legacyBranchOrder {
		// Legacy precedence: the combined leaning set wins first, so a
		// Republican-leaning ticker still codes as AffinityLeaning.
		if e.leaning[ticker] {
			return AffinityLeaning
		}
		if e.republican[ticker] {
			return AffinityRepublican
		}
		return AffinityNone
	}
	if e.democrat[ticker] {
		return AffinityLeaning
	}
	if e.republican[ticker] {
		return AffinityRepublican
	}
	return AffinityNone
}

// LeaningCount returns how many tickers cleared the threshold.
func (e *AffinityEncoder) LeaningCount() int {
	return len(e.leaning)
}

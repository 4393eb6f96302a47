package domain

import (
	"strings"
	"time"
)

// Party is the political party of a trading representative.
type Party string

const (
	PartyDemocrat    Party = "Democrat"
	PartyRepublican  Party = "Republican"
	PartyLibertarian Party = "Libertarian"
	PartyUnknown     Party = ""
)

// knownParties is the set of clean single-token party labels accepted
// during roster normalization.
var knownParties = map[Party]bool{
	PartyDemocrat:    true,
	PartyRepublican:  true,
	PartyLibertarian: true,
}

// IsKnown reports whether the party is one of the recognized labels.
func (p Party) IsKnown() bool {
	return knownParties[p]
}

// ParseParty normalizes a scraped party string. Only a clean single-token
// label that matches a known party resolves; multi-token or malformed
// strings yield PartyUnknown and the caller drops the record.
func ParseParty(raw string) (Party, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(strings.Fields(trimmed)) != 1 {
		return PartyUnknown, false
	}
	p := Party(trimmed)
	if !p.IsKnown() {
		return PartyUnknown, false
	}
	return p, true
}

// RawTransaction mirrors one object of the remote disclosure feed.
// String fields may carry the "--" missing-value sentinel.
type RawTransaction struct {
	DisclosureYear   int    `json:"disclosure_year"`
	DisclosureDate   string `json:"disclosure_date"`
	TransactionDate  string `json:"transaction_date"`
	Owner            string `json:"owner"`
	Ticker           string `json:"ticker"`
	AssetDescription string `json:"asset_description"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	Representative   string `json:"representative"`
	District         string `json:"district"`
	PtrLink          string `json:"ptr_link"`
	CapGainsOver200  bool   `json:"cap_gains_over_200_usd"`
}

// Transaction is a cleaned, typed disclosure record. Identifier and
// free-text columns of the raw feed (owner, asset description, district,
// ptr link) are intentionally not carried over.
type Transaction struct {
	Representative  string
	Ticker          string // empty when the feed carried the missing sentinel
	TransactionDate time.Time
	DisclosureDate  time.Time
	TransactionYear int
	Amount          string // ordinal bucket label, e.g. "$1,001 - $15,000"
	Type            string // purchase / sale variants / exchange
	CapGainsOver200 bool
	Party           Party
}

// HasTicker reports whether the record carries a usable ticker symbol.
func (t Transaction) HasTicker() bool {
	return t.Ticker != ""
}

// IsClean reports whether the record satisfies the post-cleaning
// invariants: a resolved party and a transaction year at or after minYear.
func (t Transaction) IsClean(minYear int) bool {
	return t.Party.IsKnown() && t.TransactionYear >= minYear
}

// RosterEntry pairs a representative name with the raw party-and-chamber
// string scraped for them. Party resolution happens during cleaning.
type RosterEntry struct {
	Representative string
	RawParty       string
}

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"disclosures/internal/domain"
)

func affinityTxs(ticker string, democrat, republican int) []domain.Transaction {
	var txs []domain.Transaction
	for i := 0; i < democrat; i++ {
		txs = append(txs, domain.Transaction{Ticker: ticker, Party: domain.PartyDemocrat})
	}
	for i := 0; i < republican; i++ {
		txs = append(txs, domain.Transaction{Ticker: ticker, Party: domain.PartyRepublican})
	}
	return txs
}

func TestAffinityDemocratLeaning(t *testing.T) {
	// 8 Democrat vs 2 Republican trades: 0.8 > 0.6, Democrat-leaning.
	enc := FitAffinity(affinityTxs("X", 8, 2), 0.6, true, nil)
	assert.Equal(t, AffinityLeaning, enc.Code("X"))
	assert.Equal(t, 1, enc.LeaningCount())
}

func TestAffinityEvenSplitIsNone(t *testing.T) {
	enc := FitAffinity(affinityTxs("Y", 5, 5), 0.6, true, nil)
	assert.Equal(t, AffinityNone, enc.Code("Y"))
	assert.Equal(t, 0, enc.LeaningCount())
}

func TestAffinityThresholdIsStrict(t *testing.T) {
	// Exactly at the threshold does not lean.
	enc := FitAffinity(affinityTxs("Z", 6, 4), 0.6, true, nil)
	assert.Equal(t, AffinityNone, enc.Code("Z"))
}

func TestAffinityUnknownTicker(t *testing.T) {
	enc := FitAffinity(affinityTxs("X", 8, 2), 0.6, true, nil)
	assert.Equal(t, AffinityNone, enc.Code("ZZZZ"))
	assert.Equal(t, AffinityNone, enc.Code(""))
}

func TestAffinityLegacyBranchOrderShadowsRepublican(t *testing.T) {
	// A Republican-leaning ticker is also in the combined leaning set, so
	// the legacy branch order codes it 1, never 2.
	enc := FitAffinity(affinityTxs("R", 1, 9), 0.6, true, nil)
	assert.Equal(t, AffinityLeaning, enc.Code("R"))
}

func TestAffinityDirectBranchOrder(t *testing.T) {
	enc := FitAffinity(affinityTxs("R", 1, 9), 0.6, false, nil)
	assert.Equal(t, AffinityRepublican, enc.Code("R"))

	enc = FitAffinity(affinityTxs("D", 9, 1), 0.6, false, nil)
	assert.Equal(t, AffinityLeaning, enc.Code("D"))
}

func TestAffinityMultipleTickers(t *testing.T) {
	txs := append(affinityTxs("D", 9, 1), affinityTxs("N", 5, 5)...)
	txs = append(txs, domain.Transaction{Ticker: "", Party: domain.PartyDemocrat})

	enc := FitAffinity(txs, 0.6, true, nil)
	assert.Equal(t, AffinityLeaning, enc.Code("D"))
	assert.Equal(t, AffinityNone, enc.Code("N"))
	assert.Equal(t, 1, enc.LeaningCount())
}

// Package features builds the ordinal feature columns the party
// classifier consumes. Every encoder is fitted explicitly: fitting
// produces an immutable vocabulary, transforming applies it, and the same
// fitted encoder is used on both partitions of a split.
package features

import (
	"sort"
)

// FrequencyEncoder assigns integer codes to string labels by descending
// observed frequency, code 0 for the most frequent. Ties are broken
// lexicographically so fitting is deterministic. Labels unseen at fit
// time map to UnknownCode.
type FrequencyEncoder struct {
	codes map[string]int
}

// FitFrequency builds the frequency-ranked vocabulary from the given
// labels.
func FitFrequency(labels []string) *FrequencyEncoder {
	counts := make(map[string]int, len(labels))
	for _, label := range labels {
		counts[label]++
	}

	distinct := make([]string, 0, len(counts))
	for label := range counts {
		distinct = append(distinct, label)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return distinct[i] < distinct[j]
	})

	codes := make(map[string]int, len(distinct))
	for i, label := range distinct {
		codes[label] = i
	}
	return &FrequencyEncoder{codes: codes}
}

// Code returns the fitted code for label, or UnknownCode when the label
// was not in the fitting vocabulary.
func (e *FrequencyEncoder) Code(label string) int {
	if code, ok := e.codes[label]; ok {
		return code
	}
	return e.UnknownCode()
}

// UnknownCode is the explicit fallback for unseen labels: one past the
// highest fitted code.
func (e *FrequencyEncoder) UnknownCode() int {
	return len(e.codes)
}

// Len returns the fitted vocabulary size.
func (e *FrequencyEncoder) Len() int {
	return len(e.codes)
}

// boolCode maps a boolean flag to {0,1}.
func boolCode(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Day-of-month buckets of the swing-day encoder.
const (
	DayBucketHighContrast = 0
	DayBucketMidContrast  = 1
	DayBucketNeutral      = 2
)

// DayBucketEncoder maps a transaction's day of month onto one of three
// buckets using a fixed table. The table is configuration, never derived
// from the data at encode time.
type DayBucketEncoder struct {
	buckets map[int]int
}

// NewDayBucketEncoder builds the encoder from the bucket day lists.
// A day listed in both tables takes the high-contrast bucket.
func NewDayBucketEncoder(highContrastDays, midContrastDays []int) *DayBucketEncoder {
	buckets := make(map[int]int, len(highContrastDays)+len(midContrastDays))
	for _, day := range midContrastDays {
		buckets[day] = DayBucketMidContrast
	}
	for _, day := range highContrastDays {
		buckets[day] = DayBucketHighContrast
	}
	return &DayBucketEncoder{buckets: buckets}
}

// Code returns the bucket for a day of month.
func (e *DayBucketEncoder) Code(day int) int {
	if bucket, ok := e.buckets[day]; ok {
		return bucket
	}
	return DayBucketNeutral
}

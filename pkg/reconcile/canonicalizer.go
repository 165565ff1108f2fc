package reconcile

import (
	"sort"
)

// CanonicalRecord is the single record chosen to represent a serial after
// canonicalization, annotated with every batch number that referenced it in
// the pass. Serial-less records carry only their own batch number.
type CanonicalRecord struct {
	NormalizedRecord
	BatchNumbers []string
}

// ConflictPair names a losing batch for a serial that appeared in more than
// one batch in the same pass.
type ConflictPair struct {
	Serial       string
	LosingBatch  string
	WinningBatch string
}

// beats reports whether a should be canonical over b: the higher batch
// timestamp wins, and on an exact tie the higher ingest rank wins. Rank is
// unique per batch, so the order is strict.
func beats(a, b NormalizedRecord) bool {
	if !a.BatchTimestamp.Equal(b.BatchTimestamp) {
		return a.BatchTimestamp.After(b.BatchTimestamp)
	}
	return a.BatchIngestRank > b.BatchIngestRank
}

// Canonicalize resolves which batch owns each serial. Records without a
// serial bypass grouping and pass through as independent records. The result
// is deterministic for identical input batch sets.
func Canonicalize(records []NormalizedRecord) ([]CanonicalRecord, []ConflictPair) {
	canonical := make([]CanonicalRecord, 0, len(records))

	winners := make(map[string]NormalizedRecord)
	referencing := make(map[string]map[string]struct{})
	serialOrder := make([]string, 0)

	for _, record := range records {
		if record.Serial == "" {
			canonical = append(canonical, CanonicalRecord{
				NormalizedRecord: record,
				BatchNumbers:     []string{record.BatchNumber},
			})
			continue
		}

		if _, ok := winners[record.Serial]; !ok {
			winners[record.Serial] = record
			referencing[record.Serial] = map[string]struct{}{record.BatchNumber: {}}
			serialOrder = append(serialOrder, record.Serial)
			continue
		}

		referencing[record.Serial][record.BatchNumber] = struct{}{}
		if beats(record, winners[record.Serial]) {
			winners[record.Serial] = record
		}
	}

	conflicts := make([]ConflictPair, 0)
	for _, serial := range serialOrder {
		winner := winners[serial]

		batches := make([]string, 0, len(referencing[serial]))
		for number := range referencing[serial] {
			batches = append(batches, number)
		}
		sort.Strings(batches)

		canonical = append(canonical, CanonicalRecord{
			NormalizedRecord: winner,
			BatchNumbers:     batches,
		})

		for _, number := range batches {
			if number == winner.BatchNumber {
				continue
			}
			conflicts = append(conflicts, ConflictPair{
				Serial:       serial,
				LosingBatch:  number,
				WinningBatch: winner.BatchNumber,
			})
		}
	}

	return canonical, conflicts
}

package batch

import (
	"errors"

	"github.com/danielfard/PruebaTecnica/internal/model"
)

var ErrInvalidSize = errors.New("batch size must be positive")

// Split partitions records into contiguous groups of at most size,
// preserving order. The final group may be short; empty input yields
// zero groups. Groups alias the input slice, they do not copy it.
func Split(records []model.Record, size int) ([][]model.Record, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	batches := [][]model.Record{}
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches, nil
}

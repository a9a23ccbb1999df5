package domain

import "sort"

// BatchStore holds the batches that have been accumulated but not yet
// attempted. Batches are keyed by [Record.BatchKey]. The store belongs to
// exactly one writer; it is not safe for concurrent use.
type BatchStore struct {
	batches map[string]*Batch
}

// NewBatchStore creates an empty batch store.
func NewBatchStore() *BatchStore {
	return &BatchStore{
		batches: make(map[string]*Batch),
	}
}

// Append adds the record to the batch for its key, creating the batch if
// this is the key's first record, and returns that batch.
func (s *BatchStore) Append(rec Record) *Batch {
	key := rec.BatchKey()
	batch, ok := s.batches[key]
	if !ok {
		batch = NewBatch(key)
		s.batches[key] = batch
	}
	batch.Add(rec)
	return batch
}

// Get returns the batch for the key, or nil if none is pending.
func (s *BatchStore) Get(key string) *Batch {
	return s.batches[key]
}

// Take removes the batch for the key from the store and returns it.
// Returns nil if no batch is pending for the key. Once taken, a batch is
// the caller's responsibility; the store forgets it whether or not the
// send succeeds.
func (s *BatchStore) Take(key string) *Batch {
	batch, ok := s.batches[key]
	if !ok {
		return nil
	}
	delete(s.batches, key)
	return batch
}

// Keys returns the pending batch keys in sorted order so that flush
// passes visit batches deterministically.
func (s *BatchStore) Keys() []string {
	keys := make([]string, 0, len(s.batches))
	for key := range s.batches {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of pending batches.
func (s *BatchStore) Len() int {
	return len(s.batches)
}

// Records returns the total number of pending records across all batches.
func (s *BatchStore) Records() int {
	var total int
	for _, batch := range s.batches {
		total += len(batch.Records)
	}
	return total
}

package domain

// Batch is an aggregate of records that share a batch key and are sent
// together in one payload. Records keep their arrival order.
type Batch struct {
	// Key is the batch key shared by every record, see [Record.BatchKey]
	Key string

	// Records contains the records in arrival order
	Records []Record
}

// NewBatch creates a new empty batch for the given key.
func NewBatch(key string) *Batch {
	return &Batch{
		Key:     key,
		Records: make([]Record, 0),
	}
}

// Add appends a record to the batch.
func (b *Batch) Add(rec Record) {
	b.Records = append(b.Records, rec)
}

// Size returns the number of records in the batch, tombstones included.
func (b *Batch) Size() int {
	return len(b.Records)
}

// Empty returns true if the batch has no records.
func (b *Batch) Empty() bool {
	return len(b.Records) == 0
}

// Topic returns the topic shared by the batch's records, or "" for an
// empty batch. All records in a batch come from one topic because the
// batch key starts with the topic name.
func (b *Batch) Topic() string {
	if len(b.Records) == 0 {
		return ""
	}
	return b.Records[0].Topic
}

// Values returns the record payloads in arrival order. Tombstone values
// stay in place as nil so encoders can decide how to treat them.
func (b *Batch) Values() [][]byte {
	values := make([][]byte, len(b.Records))
	for i, rec := range b.Records {
		values[i] = rec.Value
	}
	return values
}

// LastRecord returns the last record in the batch, or nil if empty.
func (b *Batch) LastRecord() *Record {
	if len(b.Records) == 0 {
		return nil
	}
	return &b.Records[len(b.Records)-1]
}

package domain

import "time"

// Record represents a single record consumed from a broker topic.
// A record is the atomic unit of data flowing through logship.
type Record struct {
	// Topic is the broker topic the record was read from
	Topic string

	// Partition is the topic partition the record was read from
	Partition int32

	// Offset is the record's position within the partition
	Offset int64

	// Key is the record key; nil when the record was produced without one
	Key []byte

	// Value is the record payload; nil marks a tombstone that is never shipped
	Value []byte

	// Timestamp is the broker-assigned record timestamp
	Timestamp time.Time
}

// BatchKey returns the grouping key for this record: the topic and the
// record key joined by a colon. Records without a key group under
// "topic:", so all keyless records of a topic share one batch.
func (r Record) BatchKey() string {
	return r.Topic + ":" + string(r.Key)
}

// Tombstone reports whether the record carries no value. Tombstones are
// counted but never included in a payload.
func (r Record) Tombstone() bool {
	return r.Value == nil
}

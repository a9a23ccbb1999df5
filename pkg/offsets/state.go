package offsets

import "time"

// Position is the last delivered offset for one topic partition.
type Position struct {
	// Topic is the broker topic
	Topic string `json:"topic"`

	// Partition is the topic partition
	Partition int32 `json:"partition"`

	// Offset is the offset of the last record that was delivered
	Offset int64 `json:"offset"`
}

// State represents persistent delivery positions for crash recovery.
// It is saved after each successful commit when the source runs without
// a broker-side consumer group.
type State struct {
	// Positions holds one entry per topic partition seen so far
	Positions []Position `json:"positions"`

	// LastCommitAt is the timestamp of the last successful commit
	LastCommitAt time.Time `json:"last_commit_at"`

	// LastSendAt is the timestamp of the last delivery attempt
	LastSendAt time.Time `json:"last_send_at"`
}

// IsEmpty returns true if no position has been recorded yet.
func (s State) IsEmpty() bool {
	return len(s.Positions) == 0
}

// Lookup returns the last delivered offset for the topic partition and
// whether one has been recorded.
func (s State) Lookup(topic string, partition int32) (int64, bool) {
	for _, p := range s.Positions {
		if p.Topic == topic && p.Partition == partition {
			return p.Offset, true
		}
	}
	return 0, false
}

// Advance records the offset as delivered for the topic partition.
// Offsets never move backwards.
func (s *State) Advance(topic string, partition int32, offset int64) {
	for i := range s.Positions {
		p := &s.Positions[i]
		if p.Topic == topic && p.Partition == partition {
			if offset > p.Offset {
				p.Offset = offset
			}
			return
		}
	}
	s.Positions = append(s.Positions, Position{Topic: topic, Partition: partition, Offset: offset})
}

// Package offsets provides position persistence for resumable consumption.
//
// This package manages loading and saving of delivered offsets, enabling
// resumption after restarts when the record source runs without a
// broker-side consumer group. The state tracks the last delivered offset
// per topic partition.
//
// # Usage
//
// Create a file-based repository:
//
//	repo := offsets.NewFileRepository("/path/to/state/dir")
//
//	// Load existing state
//	s, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//
//	// ... deliver records ...
//
//	s.Advance("orders", 0, 41)
//	if err := repo.Save(ctx, s); err != nil {
//	    return err
//	}
//
// # File Format
//
// State JSON uses snake_case field names. The file holds the offset of
// the last record that was delivered, so consumption resumes at the
// following offset.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package offsets

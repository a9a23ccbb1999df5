// Package domain contains the core domain entities and value objects for logship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (Kafka, HTTP, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Record]: A single keyed record consumed from a broker topic
//   - [Batch]: An aggregate of records that share a batch key and are sent together
//   - [BatchStore]: The set of pending batches, keyed by [Record.BatchKey]
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain

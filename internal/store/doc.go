// Package store provides persistent storage for pet records using SQLite.
//
// # Architecture
//
// The package defines a single Store interface covering the full pet
// data-access contract: CRUD, case-insensitive name lookup, filtered
// search, adoption, and aggregate statistics. SQLiteStore implements it
// on modernc.org/sqlite with WAL mode and automatic schema creation.
//
// # Data Model
//
//   - Pet: the adoption record. The ID is assigned on creation and never
//     changes; IsAdopted only transitions false to true.
//   - PetUpdate: partial update with nil-means-unchanged fields.
//   - SearchFilter, Summary, AdoptionStats: search and reporting types.
//
// # Error Handling
//
// Domain failures are reported via sentinel errors:
//
//   - ErrNotFound: requested pet does not exist
//   - ErrAlreadyAdopted: adopt called on an adopted pet
//   - ErrInvalidField: create/update carried a bad field value
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewSQLiteStore with a t.TempDir() path, or ":memory:" for throwaway
// databases. Seed inserts the fixed demo pets and is idempotent.
package store

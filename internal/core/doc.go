// Package core provides the workshop business logic: reading spreadsheet
// uploads, checking them against the vehicle column specification, and
// importing their rows into storage.
//
// The package is independent of any transport. Web handlers and the
// tallerctl CLI both drive it through [Service].
//
// # Import pipeline
//
// An upload goes through the same steps in every entry point:
//
//  1. [ParseSheet] detects .xlsx or delimited text and returns normalized
//     headers plus one [RawRow] per data row
//  2. [ValidateColumns] or [RequireColumns] compares headers with the
//     [ColumnSpecification]
//  3. a [Coercer] built from the same specification turns each row into a
//     [Vehicle] or a failed [RowResult]
//  4. An [Importer] stages vehicles into a [VehicleSink] and commits them
//     in batches, pushing [ProgressEvent] values through a [Notifier]
//
// Row failures never stop a job. A failed batch commit rolls the batch
// back and counts its rows as failed, so exitosos + fallidos always equals
// the number of data rows.
//
// # Jobs
//
// Each import is a job moving through started, running and then completed
// or failed. Every transition is saved to a [JobStore]; finished jobs are
// also sent to an [EventPublisher] when one is configured. An
// [ImportLimiter] bounds how many jobs run at once.
//
// # Error Handling
//
// Technical errors are mapped to messages for workshop staff with
// [MapError]. Codes are grouped by category:
//
//   - FILE001-FILE004: upload and parsing
//   - VAL001-VAL003: columns and values
//   - IMP001-IMP005: import jobs
//   - DB001-DB006: storage
package core

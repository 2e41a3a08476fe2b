// Package core provides the business logic for the dataset dashboard.
//
// This package holds the domain logic independent of any UI or transport
// layer. It is used by the web handlers and the dashctl CLI without
// modification.
//
// # Architecture
//
// Data flows one way: identifier → [Loader] → [Table] → {[Summarize], [Render]}.
//
//   - Loader: resolves an identifier under the data root and parses .csv,
//     .xlsx or .xls files into a Table.
//   - Summary: row and column counts plus mean/min/max per numeric column.
//   - View selection: picks the table, summary or chart path for a
//     [Selection] and validates chart columns.
//   - Store: sanitizes, writes and lists uploaded datasets.
//   - Service: the facade the outer layers call.
//
// # Dataset Identifiers
//
// Identifiers are namespaced by prefix:
//
//	example_sales.csv          -> <root>/example/example_sales.csv
//	uploads/q3_numbers.xlsx    -> <root>/uploads/q3_numbers.xlsx
//
// Empty identifiers, missing files and unsupported extensions load as an
// empty table. Only malformed content in a supported file is an error; it
// wraps [ErrParse].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE008: File errors (size, format, encoding, envelope)
//   - VAL001: Request validation
//   - UPL001-UPL004: Upload errors (busy, not saved, cancelled, timeout)
//   - DS001: Dataset listing
package core

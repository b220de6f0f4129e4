// Package rollback records applied fixes in transactions and restores files
// from verified backups when a transaction is rolled back.
//
// A Manager owns one project root. It keeps the full transaction list in
// memory, hydrated lazily from the transaction log on first use, and
// rewrites the whole log after every mutation: the document is written to a
// temp file next to the log, read back and compared, then renamed over the
// log. Saves within one Manager are serialized in request order.
//
// Lifecycle of a transaction:
//
//	pending --CommitTransaction--> committed
//	pending --Rollback---------->  rolled_back | partial
//
// Terminal states never change. There is no cross-process locking; when two
// processes write the same log, the last rename wins.
package rollback

// Package pension keeps a ledger of a pension account balance up to date.
//
// Each pass observes the account (balance, valuation date and the last
// premium paid), compares the reading with the last recorded row of the
// ledger, and appends at most two rows:
//   - a payment row when a premium was paid after the last recorded row,
//   - a balance row with the new valuation.
//
// Every row carries the running figures derived from the previous one:
// change, total contributions, total gain and rate of return. A pass that
// observes nothing new is a no-op, so passes can run on every schedule tick.
//
// The reconciliation itself ([Reconciler]) is a pure computation over a
// [View] of the ledger. Acquisition ([Source]) and persistence ([Store]) are
// adapters: see the provider, sqlite, postgres and sheets packages, and
// [FileStore] for the JSONL file ledger.
package pension

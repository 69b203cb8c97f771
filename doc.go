// Package bahi implements a double-entry accounting ledger kernel for an
// individual's multi-asset portfolio: balanced journal postings over an
// account tree, historical exchange-rate conversion with an explicit
// fallback policy, FIFO cost-basis lot tracking, regulatory grandfathering
// of pre-cutoff acquisitions, and holding-period classification of capital
// gains.
//
// The kernel is the system of record: statement parsers feed it normalized
// transaction intents, and reporting consumes its balances, position
// snapshots and gain summaries. It holds no global state; every component
// is constructed explicitly and owned by the caller.
package bahi

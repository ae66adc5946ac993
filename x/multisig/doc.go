/*
Package multisig implements the quorum authorization engine.

A fixed set of owners jointly controls outbound transactions. Any owner
may propose a transaction (a target, a value and an opaque payload). Owners
confirm and revoke their approval, and once the number of confirmations
reaches the configured threshold any owner may execute the transaction.
Execution happens at most once per transaction: the executed mark is
committed before the Dispatcher is called, so neither a concurrent nor a
re-entrant Execute of the same index can dispatch it again.

Every mutation is atomic. Preconditions are checked on a cache wrap of the
store that is only written when the whole operation succeeded, so a
rejected call leaves no trace apart from a log line.

The Engine reports what happened through an EventSink. Events carry tags
that can be indexed by an observer.
*/
package multisig

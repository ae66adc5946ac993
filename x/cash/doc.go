/*
Package cash implements the value holding side of a quorum engine.

A Vault keeps the pool of value owned by the engine and the balances of
every address value was dispatched to. Dispatching can additionally call
into code registered for the target address in a Router, which is how
executed transactions carry their payload.
*/
package cash

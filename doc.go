/*
Package quorum defines the types shared by all packages of the quorum
authorization engine: owner identities (Address, Condition), the key value
store interfaces state is persisted through, and context helpers carrying
a logger.

The engine itself lives in x/multisig. A fixed set of owners proposes
transactions, confirms and revokes them, and a transaction is dispatched
exactly once after at least threshold owners confirmed it. The value
transfer collaborator lives in x/cash.

Context carries per call information across packages. For every value of
type T there is a pair of functions:

  WithXYZ(context.Context, T) context.Context
  GetXYZ(context.Context) T
*/
package quorum

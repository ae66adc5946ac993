/*
Package errors implements the error kinds used across the quorum engine.

Reuse the root errors declared in this package where possible and declare
package specific kinds only when a caller must be able to tell them apart,
as x/multisig does for every precondition of the engine.

If you want to register a custom error - use Register(code, description).
Each root error carries a code that stays stable across releases, which
lets outer surfaces (the CLI) report the kind of failure without exposing
internals.

Create error instances with Wrap or Wrapf at the point of failure so that
a stacktrace is attached. If you wrap multiple times, only the innermost
wrap records the stacktrace.

Once you have an error, fmt verbs give more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors

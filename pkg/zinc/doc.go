// Package zinc is the public API of the Zinc bytecode VM: load an
// Application (a Circuit or a Contract), run it in witness mode, or
// compile it to a Groth16 circuit and prove/verify executions of it.
//
// Internals live under internal/zinc and are not part of this
// package's compatibility surface; everything a caller needs —
// Application loading, JSON value conversion, the Keeper storage
// interface, and the run/prove/verify/setup entry points — is
// re-exported or implemented here.
package zinc

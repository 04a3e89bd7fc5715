// Package lightclient implements the stateless verification core of a
// Tendermint-style light client: deciding whether an untrusted signed block
// header can be promoted to a new trusted state, given a previously trusted
// state and an external clock.
//
// The package is deliberately free of I/O. It does not fetch headers, does
// not persist trusted state, and does not log; all of that is the job of an
// outer collaborator (see cmd/lightcheck for a minimal example). Every
// exported function here is pure given its arguments.
//
// The verification state machine lives in VerifySingle and has two
// sub-modes: sequential, where the untrusted header is exactly one height
// above the trusted state, and skipping, where it is further ahead and
// verification instead relies on voting-power overlap with the previously
// trusted validator set.
package lightclient

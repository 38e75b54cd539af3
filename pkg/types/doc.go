// Package types defines the artifact, stake and contest entities, the
// collaborator and store interfaces, and the standard errors for the
// poneglyph ownership game.
//
// The game core never stores who holds an artifact. Ownership is always read
// from an OwnershipRegistry and value always moves through a ValueLedger;
// both are supplied by the caller.
package types

// Package audit maintains the append-only transactions trail: who did
// what to which object, when, from where, and which field changed.
//
// Entries are written with [Trail.Log] and queried with [Trail.History],
// which requires at least one restriction; pulling the entire global
// history in one call is not supported. [Trail.LastLogin] and
// [Trail.ActiveObjectIDs] answer the two common derived questions
// directly.
package audit

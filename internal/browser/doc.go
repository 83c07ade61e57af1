// Package browser implements the interaction model of zkx: per-tab navigation
// and edit state machines, path resolution, the tab collection, and the
// session that routes commands to them.
//
// The package is UI-agnostic. A front end translates input into Command
// values, calls Session.Dispatch, and then reads state back through the
// read-only accessors for rendering. Commands are processed one at a time and
// every store call completes before Dispatch returns.
package browser

// Package hooks provides the state primitives used by via views: a State
// cell, post-render Effects, a shared context Store, a ReducerStore driven
// by named actions, and a reusable Counter.
//
// All types are safe for concurrent use. Listeners are always called outside
// internal locks, so a listener may read or update the value it observes.
package hooks

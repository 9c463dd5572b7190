// Package state is the portal's observable key/value store.
//
// A Holder keeps one slot per key. Each slot carries the current value and
// an ordered list of listeners that are called whenever Set or Unset changes
// the value. The two well-known keys are KeyConfig, holding the portal
// configuration fetched from the server, and KeyUser, holding the signed-in
// user. Every notification is also published on a pubsub broker so that
// asynchronous consumers such as TUI models can follow changes without
// registering a synchronous listener.
package state

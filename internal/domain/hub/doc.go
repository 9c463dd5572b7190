// Package hub holds the Hub's domain types: the portal configuration, the
// signed-in user, organizations, images and image versions, plus the
// constants the Hub API uses on the wire.
//
// The package has no infrastructure dependencies. HTTP access lives in
// internal/hubapi and persistence in internal/infrastructure/sqlite.
package hub

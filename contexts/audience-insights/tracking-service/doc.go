// Package trackingservice ingests browser tracking events: it validates the
// inbound envelope, enriches it with server-observed transport facts,
// persists one row per event, and fires a best-effort mail notification for
// a small set of business actions.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package trackingservice

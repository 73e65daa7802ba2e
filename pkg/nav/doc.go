// Package nav turns browser navigation events into an ordered stream of
// navigation states.
//
// The thin client reports four kinds of events: the initial page load, a
// link activation inside the app, a programmatic navigation, and a history
// pop (back/forward). A Listener resolves each event's target against the
// app origin and deployment base path, strips the base, canonicalizes the
// remaining path and publishes a State to its subscribers in the order the
// events were handled.
//
// Targets on a foreign origin, outside the base path, or that do not parse
// are not intercepted. Handle reports them as such and the caller lets the
// browser navigate natively.
//
// Each State also carries the scroll instruction its consumer must apply: a
// history pop restores the offset remembered for the entry, a forward
// navigation resets to the top.
package nav

// Package reactive provides observable value cells for per-session UI state.
//
// A Signal holds one value and notifies its subscribers when the value
// changes. Setting a value equal to the current one is a no-op: no
// subscriber runs. Each signal is observed independently, so a subscriber of
// one signal never runs because another signal changed.
//
//	count := reactive.NewIntSignal(0)
//	stop := count.Subscribe(func(n int) {
//	    fmt.Println("count is now", n)
//	})
//	defer stop()
//
//	count.Inc()   // prints "count is now 1"
//	count.Set(1)  // no output, value unchanged
//
// Subscribers run synchronously on the goroutine that changed the value,
// after the new value is visible to Get. Signals are safe for concurrent use,
// but the starter server only ever touches a session's signals from that
// session's event loop.
package reactive

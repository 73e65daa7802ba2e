// Package server runs live browser sessions over WebSocket.
//
// Each connected browser gets a Session with its own state.State and
// nav.Listener. A session runs three goroutines:
//
//   - ReadLoop decodes client messages and queues them in arrival order
//   - EventLoop handles navigations, actions and timer completions one at a
//     time, then pushes a fresh render to the client
//   - WriteLoop sends heartbeat pings
//
// Everything that touches session state runs on the EventLoop, so handlers
// never race with each other. Work that finishes later, such as the contact
// form submission, re-enters the loop through Session.Dispatch.
//
// # Protocol
//
// Messages are JSON text frames. The client sends:
//
//	{"type":"nav","kind":"link","href":"/contact","from":"k-1","from_scroll":{"x":0,"y":420}}
//	{"type":"action","name":"increment"}
//
// and the server answers with "render", "update", "external" or "error"
// messages, see ServerMessage.
package server

package server

import (
	"github.com/vango-dev/starter/pkg/nav"
)

// Client message types.
const (
	MessageNav    = "nav"
	MessageAction = "action"
)

// Server message types.
const (
	// MessageRender replaces the page after a navigation.
	MessageRender = "render"
	// MessageUpdate replaces the page content in place after a state change.
	MessageUpdate = "update"
	// MessageExternal tells the client to let the browser navigate.
	MessageExternal = "external"
	// MessageError reports a rejected client message.
	MessageError = "error"
)

// Actions understood by a session.
const (
	ActionIncrement     = "increment"
	ActionDecrement     = "decrement"
	ActionContactSubmit = "contact.submit"
	ActionNavigate      = "navigate"
)

// ClientMessage is a message sent by the browser. Navigation fields are
// shared with nav.Event; a "navigate" action carries its target in Value
// and the entry being left in From and FromScroll.
type ClientMessage struct {
	Type string `json:"type"`
	nav.Event

	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerMessage is a message sent to the browser.
type ServerMessage struct {
	Type string `json:"type"`

	Title string `json:"title,omitempty"`
	HTML  string `json:"html,omitempty"`

	// Path is the in-app path of the rendered page and URL its address
	// including base path and query.
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`

	// Key is the history entry key; Push asks the client to push a new
	// history entry rather than replace the current one.
	Key    string      `json:"key,omitempty"`
	Push   bool        `json:"push,omitempty"`
	Scroll *nav.Scroll `json:"scroll,omitempty"`

	// Href is the target of an external navigation.
	Href string `json:"href,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

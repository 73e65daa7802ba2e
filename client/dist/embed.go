// Package clientdist embeds the browser client.
package clientdist

import _ "embed"

// StarterJS is the thin client served at "{base}/_starter/client.js".
//
//go:embed starter.js
var StarterJS []byte

// Files lists the client assets by name, for static deployment.
var Files = map[string][]byte{
	"starter.js": StarterJS,
}

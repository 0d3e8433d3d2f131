// Package web embeds the single-page control UI.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte

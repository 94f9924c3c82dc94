// Package web holds the static landing page.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte

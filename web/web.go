// Package web embeds the client-side tracking script served to the
// marketing site. Session identity lives entirely in the browser: the
// script mints a UUID per sessionStorage scope and every reported event
// carries it.
package web

import _ "embed"

//go:embed tracker.js
var TrackerJS []byte

// Package gui embeds the server-rendered views.
package gui

import "embed"

//go:embed templates/*.html
var Templates embed.FS

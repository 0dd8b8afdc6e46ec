// Package folio provides the embedded page templates and static assets.
package folio

import "embed"

// In dev mode templates and assets are read from disk instead so edits show
// up without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

package typescaf

import (
	"io/fs"

	"github.com/goliatone/go-typescaf/pkg/templates"
)

// EmbeddedTemplates exposes the built-in template sets, rooted so paths read
// "<set>/<file>", so callers can copy or extend them without importing the
// templates package directly.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}

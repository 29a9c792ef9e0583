// internal/app/features/shelf/templates.go
package shelf

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "shelf",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

// Package web holds the embedded HTML template set.
package web

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates installs the embedded template set on the engine.
// Templates are embedded so handlers render the same set regardless of
// the process working directory.
func LoadTemplates(r *gin.Engine) {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)
}

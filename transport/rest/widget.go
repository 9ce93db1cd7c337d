package rest

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

//go:embed templates/widget.html
var templatesFS embed.FS

var widgetTemplate = template.Must(template.ParseFS(templatesFS, "templates/widget.html"))

func renderWidget(w io.Writer, view *entity.GameView) error {
	if err := widgetTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to execute widget template: %w", err)
	}

	return nil
}

package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/ui"
)

// DevelopersURL is where SquadCast users create API keys.
const DevelopersURL = "https://app.squadcast.fm/account/developers"

//go:embed templates/*.html
var templateFS embed.FS

var setupTemplate = template.Must(template.ParseFS(templateFS, "templates/setup.html"))

// SetupData is rendered into the setup template.
type SetupData struct {
	App           models.AppMeta
	AddURL        string
	DevelopersURL string
	Primary       template.CSS
	Error         template.CSS
	Muted         template.CSS
}

// SetupPage renders the SquadCast settings form.
type SetupPage struct {
	app    models.AppMeta
	logger *log.Logger
}

// NewSetupPage creates the settings form handler for app.
func NewSetupPage(app models.AppMeta, logger *log.Logger) *SetupPage {
	return &SetupPage{app: app, logger: shared.WithLogger(logger, "handler", "setup")}
}

func (p *SetupPage) Routes() []string {
	return []string{http.MethodGet + " " + p.app.SetupPath()}
}

func (p *SetupPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := SetupData{
		App:           p.app,
		AddURL:        p.app.IntegrationPath("add"),
		DevelopersURL: DevelopersURL,
		Primary:       template.CSS(ui.ColorPrimary),
		Error:         template.CSS(ui.ColorError),
		Muted:         template.CSS(ui.ColorMuted),
	}

	var buf bytes.Buffer
	if err := setupTemplate.Execute(&buf, data); err != nil {
		p.logger.Error("failed to render setup page", "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

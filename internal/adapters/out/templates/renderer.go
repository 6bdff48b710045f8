// Package templates renders notification mail bodies from embedded HTML templates.
package templates

import (
	"bytes"
	"embed"
	"html/template"

	"blogjobs/internal/core/ports"
)

//go:embed html/*.html
var files embed.FS

// Renderer implements ports.NotificationRenderer.
type Renderer struct {
	broadcast *template.Template
	login     *template.Template
}

func NewRenderer() (*Renderer, error) {
	broadcast, err := template.ParseFS(files, "html/broadcast.html")
	if err != nil {
		return nil, err
	}
	login, err := template.ParseFS(files, "html/login.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{broadcast: broadcast, login: login}, nil
}

func (r *Renderer) RenderBroadcast(view ports.BroadcastView) (string, error) {
	return execute(r.broadcast, view)
}

func (r *Renderer) RenderLoginNotice(view ports.LoginView) (string, error) {
	return execute(r.login, view)
}

func execute(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

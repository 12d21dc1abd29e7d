package session

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/claude/mapty/internal/models"
)

var popupOptions = PopupOptions{
	MaxWidth:     250,
	MinWidth:     100,
	AutoClose:    false,
	CloseOnClick: false,
	ClassName:    "mark-popup",
}

var entryTmpl = template.Must(template.New("entry").Funcs(template.FuncMap{
	"fixed1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Type.Icon}}</span>
    <span class="workout__value">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
{{- if eq .Type "running"}}
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{fixed1 .Rate}}</span>
    <span class="workout__unit">min/km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">🦶🏼</span>
    <span class="workout__value">{{.Extra}}</span>
    <span class="workout__unit">spm</span>
  </div>
{{- else}}
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{fixed1 .Rate}}</span>
    <span class="workout__unit">km/h</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⛰</span>
    <span class="workout__value">{{.Extra}}</span>
    <span class="workout__unit">m</span>
  </div>
{{- end}}
</li>`))

// renderEntry builds the list item for a workout from its stored fields only.
func renderEntry(w models.Workout) (string, error) {
	var buf bytes.Buffer
	if err := entryTmpl.Execute(&buf, w); err != nil {
		return "", fmt.Errorf("rendering workout %s: %w", w.ID, err)
	}
	return buf.String(), nil
}

// popupContent is the marker label, e.g. "🏃‍♂️ Running April 5".
func popupContent(w models.Workout) string {
	return template.HTMLEscapeString(w.Type.Icon() + " " + w.Description)
}

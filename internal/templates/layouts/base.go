package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/Courtside/internal/schedule"
)

const baseStyles = `body{font-family:system-ui,sans-serif;margin:0;padding:1rem;background:#f9fafb;color:#111827}
table.board{border-collapse:collapse;font-size:.8rem;width:100%}
table.board th,table.board td{border:1px solid #e5e7eb;padding:2px 4px;text-align:center;vertical-align:top}
table.board td.booked{font-weight:600}
nav.week{display:flex;gap:1rem;align-items:center;margin-bottom:1rem}`

// Base wraps content in the page shell. Court colours become CSS variables.
func Base(title string, courts []schedule.Court, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+`</title><style>`+baseStyles+courtCssVars(courts)+
			`</style></head><body>`); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

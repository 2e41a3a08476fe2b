package templates

import "github.com/a-h/templ"

// Layout wraps body in the page shell. theme is "light" or "dark".
func Layout(title, theme string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css"></head>`)
		h.raw(`<body><div id="app-root"`)
		h.attr("class", themeClass(theme))
		h.raw(`>`)
		h.render(body)
		h.raw(`</div></body></html>`)
	})
}

func themeClass(theme string) string {
	if theme == "dark" {
		return "theme-dark"
	}
	return "theme-light"
}

// ErrorPage is a standalone page for failures outside the dashboard, such
// as a rejected form upload.
func ErrorPage(message, action, code string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<div class="container"><h1>Something went wrong</h1>`)
		h.render(ErrorAlert(message, action, code))
		h.raw(`<p><a href="/">Back to the dashboard</a></p></div>`)
	})
	return Layout("Error", "light", body)
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="error-alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<small>Code: `)
		h.text(code)
		h.raw(`</small></div>`)
	})
}

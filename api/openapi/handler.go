// Package openapi mounts a Swagger UI over the OpenAPI 3.1 documents that
// Huma publishes for the API.
package openapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Huma serves the generated document in both encodings.
const (
	SpecPath     = "/openapi.json"
	SpecYAMLPath = "/openapi.yaml"
)

const uiPath = "/swagger/index.html"

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
  <script>
    SwaggerUIBundle({
      urls: [
        {url: %q, name: "JSON"},
        {url: %q, name: "YAML"},
      ],
      dom_id: "#swagger-ui",
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
      layout: "StandaloneLayout",
    });
  </script>
</body>
</html>`

type options struct {
	title string
}

// Option configures the UI page.
type Option func(*options)

// WithTitle sets the browser title of the UI page.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// RegisterRoutes serves the UI at /swagger/index.html and redirects the
// bare /swagger paths to it.
func RegisterRoutes(e *echo.Echo, opts ...Option) {
	o := options{title: "Restock Tracker API"}
	for _, opt := range opts {
		opt(&o)
	}

	page := fmt.Sprintf(pageTemplate, o.title, SpecPath, SpecYAMLPath)

	e.GET(uiPath, func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	for _, p := range []string{"/swagger", "/swagger/"} {
		e.GET(p, func(c echo.Context) error {
			return c.Redirect(http.StatusMovedPermanently, uiPath)
		})
	}
}

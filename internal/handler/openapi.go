package handler

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/guests-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Docs assets are compiled into the binary.
//
//go:embed static/openapi.html static/openapi.json
var staticFiles embed.FS

// OpenAPIHandler serves the API reference page and the OpenAPI document.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// StaticFS is the embedded static/ directory, rooted at its contents.
func (h *OpenAPIHandler) StaticFS() fs.FS {
	return echo.MustSubFS(staticFiles, "static")
}

// ServeOpenAPIUI serves static/openapi.html uncached so doc changes show
// up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := staticFiles.ReadFile("static/openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}

// OpenAPIDocument returns the embedded OpenAPI JSON document.
func OpenAPIDocument() ([]byte, error) {
	return staticFiles.ReadFile("static/openapi.json")
}

package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

const SpecRoute = "/openapi.yml"

// Handler serves Swagger UI pointed at the document served on SpecRoute.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecRoute),
	)
}

// LoadSpec parses and validates the OpenAPI document at path.
func LoadSpec(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// SpecHandler serves the raw document after it has been validated at startup.
func SpecHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, path)
	}
}

package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/greeting-service/internal/http/v1/greeting"
	"github.com/janisto/greeting-service/internal/platform/respond"
	greetingsvc "github.com/janisto/greeting-service/internal/service/greeting"
)

// DocsPath is where the interactive API reference is served when enabled.
const DocsPath = "/api-docs"

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, greetingService greetingsvc.Service) {
	greeting.Register(api, greetingService)
}

// Config returns the huma configuration for the greeting API. Response bodies
// are written exactly as declared: the default schema-link transformer, which
// injects a $schema field and a describedBy Link header, is removed. The
// OpenAPI, schema and docs routes exist only when docsEnabled is set. Body
// rejections are reported as 400 (see respond.Install).
func Config(title, version string, docsEnabled bool) huma.Config {
	respond.Install()
	cfg := huma.DefaultConfig(title, version)
	cfg.CreateHooks = nil
	cfg.Transformers = nil
	cfg.OpenAPI.OnAddOperation = append(cfg.OpenAPI.OnAddOperation[:0], addCBORContent)

	if docsEnabled {
		cfg.DocsPath = DocsPath
	} else {
		cfg.DocsPath = ""
		cfg.OpenAPIPath = ""
		cfg.SchemasPath = ""
	}
	return cfg
}

// addCBORContent documents application/cbor alongside application/json for
// every request and response body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

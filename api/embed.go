// Package api embeds the OpenAPI description of the control API.
package api

import _ "embed"

// OpenAPISpec is the YAML document served at /api/docs/openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPISpec []byte

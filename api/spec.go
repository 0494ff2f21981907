// Package api embeds the OpenAPI document served at /openapi.json.
package api

import _ "embed"

// OpenAPISpec is the raw OpenAPI YAML document.
//
//go:embed openapi.yaml
var OpenAPISpec []byte

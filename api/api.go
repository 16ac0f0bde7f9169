// Package api embeds the OpenAPI description served at /openapi.yaml.
package api

import _ "embed"

// OpenAPI is the contents of openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte

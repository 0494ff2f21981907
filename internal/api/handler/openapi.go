package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
)

// OpenAPIHandler serves the OpenAPI document as JSON, with info.version set
// to the running build so clients can tell which contract they are talking to.
type OpenAPIHandler struct {
	rawYAML  []byte
	version  string
	jsonOnce sync.Once
	jsonDoc  []byte
	jsonErr  error
}

// NewOpenAPIHandler creates a handler that renders the YAML document on first
// request. An empty version leaves the document's own info.version.
func NewOpenAPIHandler(yamlDoc []byte, version string) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlDoc, version: version}
}

// ServeHTTP renders the document once and writes the cached JSON.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.jsonOnce.Do(func() {
		h.jsonDoc, h.jsonErr = render(h.rawYAML, h.version)
	})

	if h.jsonErr != nil {
		slog.Error("failed to render OpenAPI document", "error", h.jsonErr)
		response.Err(w, http.StatusInternalServerError, "Failed to render OpenAPI document", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.jsonDoc); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}

func render(rawYAML []byte, version string) ([]byte, error) {
	doc, err := yaml.YAMLToJSON(rawYAML)
	if err != nil {
		return nil, err
	}
	if version == "" {
		return doc, nil
	}

	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	info, _ := m["info"].(map[string]any)
	if info == nil {
		info = map[string]any{}
		m["info"] = info
	}
	info["version"] = version
	return json.Marshal(m)
}

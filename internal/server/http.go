package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/morezero/siyuan-bridge/pkg/catalog"
	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

// maxRequestBytes bounds the params body of HTTP dispatch requests.
const maxRequestBytes = 32 << 20

// kernelHealth reports kernel reachability; *siyuan.Client implements it.
type kernelHealth interface {
	Health(ctx context.Context, constraint string) *siyuan.HealthOutput
}

// routes builds the HTTP mux: docs pages, schemas, dispatch endpoints and probes.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/operation/", s.handleOperation())
	mux.HandleFunc("/openapi.json", s.handleOpenAPI())
	mux.HandleFunc("/docs", s.handleSwagger())
	mux.HandleFunc("/command/", s.handleExecute(registry.KindCommand))
	mux.HandleFunc("/query/", s.handleExecute(registry.KindQuery))
	mux.HandleFunc("/health", s.handleHealth())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(fmt.Sprintf("%s - json encode: %v", logPrefix, err))
	}
}

func (s *Server) checkHealth(ctx context.Context) *siyuan.HealthOutput {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.HealthCheckTimeout)
	defer cancel()
	return s.health.Health(ctx, s.cfg.SiYuanMinVersion)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := s.checkHealth(r.Context())
		status := http.StatusOK
		if h.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, h)
	}
}

// homeData is the data passed to the home page template.
type homeData struct {
	Health        *siyuan.HealthOutput
	Catalog       *introspect.Catalog
	CatalogIssues []catalog.Issue
}

// handleHome returns an HTTP handler for the bridge home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := homeData{
			Health:  s.checkHealth(r.Context()),
			Catalog: s.core.Renderer.ListAll(),
		}
		if s.core.Catalog != nil {
			data.CatalogIssues = s.core.Catalog.Issues
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// operationData is the data passed to the operation page template.
type operationData struct {
	Key  string
	Kind string
	// Page is goldmark output; raw HTML in the markdown source is not passed through.
	Page template.HTML
}

// handleOperation serves /operation/<key> (HTML documentation) and
// /operation/<key>/schema.json (parameter JSON Schema).
func (s *Server) handleOperation() http.HandlerFunc {
	tmpl := template.Must(template.New("operation").Parse(operationPageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/operation/")
		if rest == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		key, suffix, _ := strings.Cut(rest, "/")

		def, err := s.core.Renderer.Lookup(key)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		switch suffix {
		case "schema.json":
			w.Header().Set("Cache-Control", "public, max-age=60")
			writeJSON(w, http.StatusOK, def.Schema.JSONSchema())
			return
		case "":
			// fall through to the documentation page
		default:
			http.NotFound(w, r)
			return
		}

		page, err := introspect.ToHTML(introspect.Page(def))
		if err != nil {
			slog.Error(fmt.Sprintf("%s - render %s: %v", logPrefix, key, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		data := operationData{Key: def.Key().String(), Kind: def.Kind.String(), Page: template.HTML(page)}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - operation template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func (s *Server) handleOpenAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := append(s.core.Registry.AllCommands(), s.core.Registry.AllQueries()...)
		w.Header().Set("Cache-Control", "public, max-age=60")
		writeJSON(w, http.StatusOK, buildOpenAPISpec(defs, s.version))
	}
}

func (s *Server) handleSwagger() http.HandlerFunc {
	tmpl := template.Must(template.New("swagger").Parse(swaggerUIPage))
	return func(w http.ResponseWriter, r *http.Request) {
		// Absolute spec URL from the request host so Swagger UI can fetch it
		specURL := "https://" + r.Host + "/openapi.json"
		if r.TLS == nil {
			specURL = "http://" + r.Host + "/openapi.json"
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"SpecURL": specURL})
	}
}

// handleExecute dispatches POST /<kind>/<key> with the JSON body as params.
func (s *Server) handleExecute(kind registry.Kind) http.HandlerFunc {
	prefix := "/" + kind.String() + "/"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var params map[string]interface{}
		dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
		if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, &dispatcher.Envelope{
				Success: false,
				Error:   fmt.Sprintf("request body must be a JSON object: %v", err),
				Code:    CodeInvalidRequest,
			})
			return
		}

		env := s.core.Dispatcher.Dispatch(r.Context(), &dispatcher.Request{
			ID:     r.Header.Get("X-Request-Id"),
			Kind:   kind.String(),
			Key:    strings.TrimPrefix(r.URL.Path, prefix),
			Params: params,
		})
		writeJSON(w, statusFor(env), env)
	}
}

// statusFor maps an envelope to an HTTP status.
func statusFor(env *dispatcher.Envelope) int {
	if env.Success {
		return http.StatusOK
	}
	switch env.Code {
	case dispatcher.CodeUnknownOperation:
		return http.StatusNotFound
	case dispatcher.CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

package endpoints

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/swaggo/swag"

	"github.com/jackzampolin/ocrstudio/docs/swagger"
	"github.com/jackzampolin/ocrstudio/internal/api"
)

// openAPIDoc loads the compiled OpenAPI document. A non-empty host
// replaces the generated one so "Try it out" calls the server that
// answered rather than localhost:8080.
func openAPIDoc(host string) (map[string]any, error) {
	raw, err := swag.ReadDoc(swagger.SwaggerInfo.InstanceName())
	if err != nil {
		return nil, fmt.Errorf("failed to read openapi doc: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi doc: %w", err)
	}
	if host != "" {
		doc["host"] = host
	}
	return doc, nil
}

// RouteSummary is one operation of the API.
type RouteSummary struct {
	Method  string `json:"method" yaml:"method"`
	Path    string `json:"path" yaml:"path"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// routeSummaries flattens the document's paths, ordered by path then method.
func routeSummaries(doc map[string]any) []RouteSummary {
	paths, _ := doc["paths"].(map[string]any)
	var routes []RouteSummary
	for path, item := range paths {
		ops, _ := item.(map[string]any)
		for method, op := range ops {
			fields, ok := op.(map[string]any)
			if !ok {
				continue
			}
			rs := RouteSummary{Method: strings.ToUpper(method), Path: path}
			rs.Summary, _ = fields["summary"].(string)
			if tags, ok := fields["tags"].([]any); ok && len(tags) > 0 {
				rs.Tag, _ = tags[0].(string)
			}
			routes = append(routes, rs)
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

// SwaggerEndpoint handles GET /swagger.json.
type SwaggerEndpoint struct{}

var _ api.Endpoint = (*SwaggerEndpoint)(nil)

func (e *SwaggerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger.json", e.handler
}

func (e *SwaggerEndpoint) RequiresInit() bool { return false }

func (e *SwaggerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIDoc(r.Host)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, doc)
}

func (e *SwaggerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	var routesOnly bool
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Fetch the OpenAPI document of the conversion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			var doc map[string]any
			if err := client.Get(cmd.Context(), "/swagger.json", &doc); err != nil {
				return err
			}

			var out any = doc
			if routesOnly {
				out = routeSummaries(doc)
			}
			if outputFile != "" {
				return api.OutputToFile(out, outputFile)
			}
			return api.Output(out)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "output file path")
	cmd.Flags().BoolVar(&routesOnly, "routes", false, "list method, path and summary of each operation instead")
	return cmd
}

// SwaggerUIEndpoint handles GET /swagger.
type SwaggerUIEndpoint struct{}

var _ api.Endpoint = (*SwaggerUIEndpoint)(nil)

func (e *SwaggerUIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger", e.handler
}

func (e *SwaggerUIEndpoint) RequiresInit() bool { return false }

const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger.json',
      dom_id: '#swagger-ui',
      docExpansion: 'list',
      tagsSorter: 'alpha',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

func (e *SwaggerUIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, swaggerUIPage, html.EscapeString(swagger.SwaggerInfo.Title))
}

func (e *SwaggerUIEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:    "swagger-ui",
		Hidden: true,
		Short:  "Print the API browser address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("Open in browser:", getServerURL()+"/swagger")
			return nil
		},
	}
}

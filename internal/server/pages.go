package server

// homePageTemplate is the HTML for the bridge home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>SiYuan Bridge</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy, .status-incompatible { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
    .error { color: #cc0000; }
  </style>
</head>
<body>
  <h1>SiYuan Bridge</h1>
  <p class="meta">Kernel health and the commands and queries this bridge exposes. <a href="/docs">API (Swagger)</a></p>

  <section>
    <h2>Kernel</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>Address: {{.Health.BaseURL}}</p>
    {{if .Health.Version}}<p>Version: <span class="stat">{{.Health.Version}}</span>{{if .Health.Constraint}} (required {{.Health.Constraint}}){{end}}</p>{{end}}
    {{if .Health.Error}}<p class="error">{{.Health.Error}}</p>{{end}}
    <p>Timestamp: {{.Health.Timestamp}}</p>
  </section>

  <section>
    <h2>Statistics</h2>
    <p>Commands: <span class="stat">{{len .Catalog.Commands}}</span></p>
    <p>Queries: <span class="stat">{{len .Catalog.Queries}}</span></p>
    {{if .CatalogIssues}}
    <p class="error">{{len .CatalogIssues}} catalog entries were skipped:</p>
    <ul>{{range .CatalogIssues}}<li class="error">#{{.Index}} {{.Key}}: {{.Message}}</li>{{end}}</ul>
    {{end}}
  </section>

  <section>
    <h2>Commands</h2>
    {{template "entries" .Catalog.Commands}}
  </section>

  <section>
    <h2>Queries</h2>
    {{template "entries" .Catalog.Queries}}
  </section>
</body>
</html>
{{define "entries"}}
    {{if not .}}
    <p>None registered.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Key</th><th>Description</th></tr>
      </thead>
      <tbody>
        {{range .}}
        <tr>
          <td><a href="/operation/{{.Key}}">{{.Key}}</a></td>
          <td>{{.Description}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
{{end}}
`

// operationPageTemplate wraps the rendered documentation page of one operation.
const operationPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Key}} – SiYuan Bridge</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; max-width: 960px; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 0.5rem; }
    pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; font-size: 0.85rem; margin: 0.25rem 0; border: 1px solid #eee; }
    code { background: #f5f5f5; padding: 0 0.2rem; }
    .back { margin-bottom: 1rem; }
    .actions { margin: 1rem 0; }
    .btn { display: inline-block; padding: 0.5rem 1rem; background: #0066cc; color: #fff; text-decoration: none; border-radius: 4px; }
    .btn:hover { background: #0052a3; }
  </style>
</head>
<body>
  <p class="back"><a href="/">← Back to catalog</a></p>
  <p class="meta">{{.Kind}}</p>
  <p class="actions"><a href="/operation/{{.Key}}/schema.json" class="btn">Parameters (JSON Schema)</a></p>
  <article>
{{.Page}}
  </article>
</body>
</html>
`

// swaggerUIPage is the HTML that embeds Swagger UI from CDN and loads the OpenAPI spec.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>API – SiYuan Bridge</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "{{.SpecURL}}",
        dom_id: "#swagger-ui",
        presets: [
          SwaggerUIBundle.presets.apis,
          SwaggerUIBundle.SwaggerUIStandalonePreset
        ]
      });
    };
  </script>
</body>
</html>
`

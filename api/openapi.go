package api

import "net/http"

// BuildOpenAPISpec constructs a minimal OpenAPI 3.0 specification for this
// API. It is returned as a generic map so it can be serialized directly to
// JSON.
func BuildOpenAPISpec() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Predictive Maintenance API",
			"version": "v1",
		},
		"paths": map[string]any{
			"/api/dashboard/summary": map[string]any{
				"get": map[string]any{
					"summary":     "Fleet health summary",
					"description": "Return machine counts per health status plus fleet-wide sensor averages, computed from the latest reading of every machine.",
					"parameters": []any{
						timeParam("as_of", "Point in time the summary is computed at, RFC3339 format"),
					},
					"responses": okJSON(map[string]any{
						"$ref": "#/components/schemas/Summary",
					}),
				},
			},
			"/api/dashboard/active-tasks": map[string]any{
				"get": map[string]any{
					"summary":   "Maintenance task counts grouped by status",
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/dashboard/team-members": map[string]any{
				"get": map[string]any{
					"summary":   "Team availability counts",
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/dashboard/team-perf": map[string]any{
				"get": map[string]any{
					"summary":   "Weekly maintenance completion rates",
					"responses": okJSON(map[string]any{"type": "array", "items": map[string]any{"type": "object"}}),
				},
			},
			"/api/machines": map[string]any{
				"get": map[string]any{
					"summary":     "List machines with health classification",
					"description": "Return one row per machine with its derived health status, paginated. Supports case-insensitive search over unit and product ids and filtering by status.",
					"parameters": []any{
						queryParam("search", "string", "Substring match against unit_id or product_id"),
						queryParam("status", "string", "One of healthy, warning or critical"),
						queryParam("limit", "integer", ""),
						queryParam("offset", "integer", ""),
					},
					"responses": okJSON(map[string]any{
						"$ref": "#/components/schemas/PagedMachines",
					}),
				},
			},
			"/api/machines/latest": map[string]any{
				"get": map[string]any{
					"summary":     "Latest reading per machine",
					"description": "Return the newest telemetry reading of every machine together with its derived health status.",
					"parameters": []any{
						timeParam("as_of", "Upper bound on reading timestamps, RFC3339 format"),
						queryParam("limit", "integer", ""),
						queryParam("offset", "integer", ""),
					},
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/machines/{id}": map[string]any{
				"get": map[string]any{
					"summary":    "Machine detail",
					"parameters": []any{pathParam("id")},
					"responses":  okJSON(map[string]any{"$ref": "#/components/schemas/Machine"}),
				},
			},
			"/api/machines/{id}/sensors": map[string]any{
				"get": map[string]any{
					"summary":     "Sensor history for one machine",
					"description": "Return raw or calendar-bucketed sensor rows for a machine, oldest first. Temperatures are reported in both Kelvin and Celsius.",
					"parameters": []any{
						pathParam("id"),
						timeParam("start", "Start of time window, RFC3339 format"),
						timeParam("end", "End of time window, RFC3339 format"),
						queryParam("interval", "string", "One of raw, hourly or daily; defaults to hourly"),
						queryParam("limit", "integer", ""),
						queryParam("offset", "integer", ""),
					},
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/machines/{id}/timeseries": map[string]any{
				"get": map[string]any{
					"summary":     "Fixed-interval averages for one machine",
					"description": "Return sensor averages bucketed to a fixed interval. The interval accepts tokens like 60, 5m, 1h or 1d and defaults to one minute over the last 24 hours.",
					"parameters": []any{
						pathParam("id"),
						timeParam("start", "Start of time window, RFC3339 format"),
						timeParam("end", "End of time window, RFC3339 format"),
						queryParam("window", "string", "Window token like 24h, 7d or 30m, used when start is absent"),
						queryParam("interval", "string", "Bucket width in seconds or with h, d or m suffix"),
					},
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/telemetry": map[string]any{
				"get": map[string]any{
					"summary":     "Query telemetry readings",
					"description": "Return raw readings or hourly/daily aggregates over a time window, defaulting to the last 24 hours.",
					"parameters": []any{
						timeParam("start", "Start of time window, RFC3339 format"),
						timeParam("end", "End of time window, RFC3339 format"),
						queryParam("unit_id", "string", ""),
						queryParam("product_id", "string", ""),
						queryParam("aggregate", "string", "One of raw, hourly or daily"),
						queryParam("limit", "integer", ""),
						queryParam("offset", "integer", ""),
					},
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/maintenance/schedules": map[string]any{
				"get": map[string]any{
					"summary": "List maintenance schedules",
					"parameters": []any{
						queryParam("status", "string", ""),
						queryParam("search", "string", "Substring match against machine id or reason"),
						queryParam("limit", "integer", ""),
						queryParam("offset", "integer", ""),
					},
					"responses": okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/maintenance/schedules/{id}": map[string]any{
				"get": map[string]any{
					"summary":    "Schedule detail",
					"parameters": []any{pathParam("id")},
					"responses":  okJSON(map[string]any{"type": "object"}),
				},
			},
			"/api/recommendations": map[string]any{
				"get": map[string]any{
					"summary":     "AI maintenance recommendations",
					"description": "Fetch schedules from the upstream ML service and normalize them into dashboard recommendation cards.",
					"responses":   okJSON(map[string]any{"type": "object"}),
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Summary": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"totalMachines": map[string]any{"type": "integer"},
						"statusCounts": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"healthy":  map[string]any{"type": "integer"},
								"warning":  map[string]any{"type": "integer"},
								"critical": map[string]any{"type": "integer"},
							},
						},
						"stats": map[string]any{"type": "object"},
					},
				},
				"Machine": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"unit_id":       map[string]any{"type": "string"},
						"product_id":    map[string]any{"type": "string"},
						"name":          map[string]any{"type": "string"},
						"type":          map[string]any{"type": "string"},
						"health":        map[string]any{"type": "integer"},
						"synthetic_RUL": map[string]any{"type": "integer"},
						"status":        map[string]any{"type": "string"},
						"last_seen":     map[string]any{"type": "string", "format": "date-time"},
					},
				},
				"PagedMachines": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"meta": map[string]any{"type": "object"},
						"data": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/components/schemas/Machine"},
						},
					},
				},
			},
		},
	}
}

func pathParam(name string) map[string]any {
	return map[string]any{
		"name":     name,
		"in":       "path",
		"required": true,
		"schema":   map[string]any{"type": "string"},
	}
}

func queryParam(name, typ, desc string) map[string]any {
	p := map[string]any{
		"name":     name,
		"in":       "query",
		"required": false,
		"schema":   map[string]any{"type": typ},
	}
	if desc != "" {
		p["description"] = desc
	}
	return p
}

func timeParam(name, desc string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "query",
		"required":    false,
		"description": desc,
		"schema":      map[string]any{"type": "string", "format": "date-time"},
	}
}

func okJSON(schema map[string]any) map[string]any {
	return map[string]any{
		"200": map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": schema,
				},
			},
		},
	}
}

// handleOpenAPI serves the OpenAPI specification as JSON at /openapi.json.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, BuildOpenAPISpec())
}

// handleSwaggerUI serves a minimal Swagger UI page that loads the OpenAPI
// document from /openapi.json so the API can be explored interactively.
func (s *Server) handleSwaggerUI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	const page = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Predictive Maintenance API - Swagger UI</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js"></script>
    <script>
      window.onload = function() {
        SwaggerUIBundle({
          url: '/openapi.json',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

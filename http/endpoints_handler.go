package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/acumidata"
)

type endpointInfo struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Category    acumidata.Category  `json:"category"`
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	Description string              `json:"description"`
	Params      []endpointParamInfo `json:"params"`
}

type endpointParamInfo struct {
	Field    string `json:"field"`
	Required bool   `json:"required"`
}

// RegisterEndpoints exposes the vendor catalog so the form layer can build
// endpoint selectors without hardcoding the table twice.
func RegisterEndpoints(r chi.Router) {
	r.Get("/endpoints", func(w http.ResponseWriter, req *http.Request) {
		catalog := acumidata.Catalog()
		out := make([]endpointInfo, 0, len(catalog))
		for _, d := range catalog {
			info := endpointInfo{
				Name:        d.Name,
				Title:       d.Title,
				Category:    d.Category,
				Method:      d.Method,
				Path:        d.Path,
				Description: d.Description,
			}
			for _, p := range d.Params {
				info.Params = append(info.Params, endpointParamInfo{Field: p.Field, Required: p.Required})
			}
			out = append(out, info)
		}
		render.JSON(w, req, map[string]any{"ok": true, "count": len(out), "endpoints": out})
	})
}

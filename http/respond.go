package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/acumidata"
)

// writeError maps the client error taxonomy onto HTTP statuses. Vendor
// rejections are surfaced verbatim so the user can diagnose them; nothing is
// retried on their behalf.
func writeError(w http.ResponseWriter, req *http.Request, err error) {
	var (
		vErr *acumidata.ValidationError
		tErr *acumidata.TransportError
		aErr *acumidata.APIError
		pErr *acumidata.ParseError
	)
	switch {
	case errors.As(err, &vErr):
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "validation_error", "detail": vErr.Error()})
	case errors.Is(err, acumidata.ErrMissingCredential):
		render.Status(req, http.StatusServiceUnavailable)
		render.JSON(w, req, map[string]any{"error": "missing_credential", "detail": err.Error()})
	case errors.As(err, &aErr):
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{
			"error":           "upstream_error",
			"upstream_status": aErr.Status,
			"upstream_body":   aErr.Body,
		})
	case errors.As(err, &tErr):
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{"error": "transport_error", "detail": tErr.Error()})
	case errors.As(err, &pErr):
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{
			"error":  "incomplete_response",
			"detail": pErr.Error(),
			"raw":    json.RawMessage(pErr.Raw),
		})
	default:
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "internal_error", "detail": err.Error()})
	}
}

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/cache"
	"github.com/yourorg/property-intel/internal/canon"
	"github.com/yourorg/property-intel/internal/events"
	"github.com/yourorg/property-intel/internal/roles"
)

type ReportDeps struct {
	Client     *acumidata.Client
	Cache      *cache.ReportCache // optional
	Pub        events.Publisher   // optional
	DefaultEnv acumidata.Environment
	Log        *slog.Logger
}

// ReportRequest is the single-lookup form. Endpoint selects a catalog entry;
// the remaining fields feed whichever params that endpoint declares.
type ReportRequest struct {
	Endpoint    string `json:"endpoint"`
	Environment string `json:"environment,omitempty"`
	Role        string `json:"role,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	Radius        string `json:"radius,omitempty"`
	Polygon       string `json:"polygon,omitempty"`
	LandUse       string `json:"land_use,omitempty"`
	Date          string `json:"date,omitempty"`
	Birdseye      string `json:"include_birdseye,omitempty"`
	Product       string `json:"product,omitempty"`
	ZipCodes      string `json:"zip_codes,omitempty"`
	FIPSCode      string `json:"fips_code,omitempty"`
	StateCode     string `json:"state_code,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Statuses      string `json:"statuses,omitempty"`
	RefID         string `json:"ref_id,omitempty"`
	StartStamp    string `json:"start_timestamp,omitempty"`
	EndStamp      string `json:"end_timestamp,omitempty"`
	ExtractType   string `json:"extract_type,omitempty"`
	PageSize      string `json:"page_size,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`

	LoanAmount float64 `json:"loan_amount,omitempty"`
}

func (b ReportRequest) query() acumidata.Query {
	return acumidata.Query{
		Address:       b.Address,
		City:          b.City,
		State:         b.State,
		Zip:           b.Zip,
		Radius:        b.Radius,
		Polygon:       b.Polygon,
		LandUse:       b.LandUse,
		Date:          b.Date,
		Birdseye:      b.Birdseye,
		Product:       b.Product,
		ZipCodes:      b.ZipCodes,
		FIPSCode:      b.FIPSCode,
		StateCode:     b.StateCode,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Statuses:      b.Statuses,
		RefID:         b.RefID,
		StartStamp:    b.StartStamp,
		EndStamp:      b.EndStamp,
		ExtractType:   b.ExtractType,
		PageSize:      b.PageSize,
		TransactionID: b.TransactionID,
	}
}

func RegisterReport(r chi.Router, d ReportDeps) {
	r.Post("/report", func(w http.ResponseWriter, req *http.Request) {
		var body ReportRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		handleReport(w, req, d, body)
	})

	// GET: query params, for links and quick curl checks
	r.Get("/report", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		body := ReportRequest{
			Endpoint:    q.Get("endpoint"),
			Environment: q.Get("environment"),
			Role:        q.Get("role"),
			Address:     q.Get("address"),
			City:        q.Get("city"),
			State:       q.Get("state"),
			Zip:         q.Get("zip"),
			Radius:      q.Get("radius"),
			Product:     q.Get("product"),
			ZipCodes:    q.Get("zip_codes"),
			FIPSCode:    q.Get("fips_code"),
			StateCode:   q.Get("state_code"),
		}
		handleReport(w, req, d, body)
	})
}

func handleReport(w http.ResponseWriter, req *http.Request, d ReportDeps, body ReportRequest) {
	desc, ok := acumidata.LookupEndpoint(body.Endpoint)
	if !ok {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "unknown_endpoint", "endpoint": body.Endpoint})
		return
	}

	env := d.DefaultEnv
	if body.Environment != "" {
		parsed, err := acumidata.ParseEnvironment(body.Environment)
		if err != nil {
			writeError(w, req, err)
			return
		}
		env = parsed
	}

	q := body.query()
	if err := q.Validate(desc); err != nil {
		writeError(w, req, err)
		return
	}

	norm := canon.Normalize(body.Address, body.City, body.State, body.Zip)
	cacheable := d.Cache != nil && body.Address != "" && body.Zip != ""

	source := "fresh"
	var raw []byte
	var staleFallback *cache.Envelope

	if cacheable {
		envl, stale, err := d.Cache.Lookup(req.Context(), string(env), desc.Name, norm.Key)
		if err != nil {
			d.Log.Warn("cache lookup failed", "endpoint", desc.Name, "err", err)
		} else if envl != nil {
			if !stale {
				raw = envl.Payload
				source = "cache"
			} else {
				// refetch; fall back to the stale copy on transport trouble
				staleFallback = envl
			}
		}
	}

	if raw == nil {
		fetched, err := d.Client.Invoke(req.Context(), desc, q, env)
		if err != nil {
			var tErr *acumidata.TransportError
			if staleFallback != nil && errors.As(err, &tErr) {
				raw = staleFallback.Payload
				source = "stale_cache"
			} else {
				writeError(w, req, err)
				return
			}
		} else {
			raw = fetched
			if cacheable {
				if err := d.Cache.Store(req.Context(), string(env), desc.Name, norm.Key, raw); err != nil {
					d.Log.Warn("cache store failed", "endpoint", desc.Name, "err", err)
				}
			}
			if d.Pub != nil {
				d.Pub.PublishReportGenerated(req.Context(), events.ReportGenerated{
					Environment: string(env),
					Endpoint:    desc.Name,
					PropertyKey: norm.Key,
					Payload:     raw,
				})
			}
		}
	}

	report, err := acumidata.Parse(desc, raw)
	if err != nil {
		writeError(w, req, err)
		return
	}

	// Request-supplied loan amount derives LTV when the payload itself
	// did not carry one.
	if body.LoanAmount > 0 {
		if value, ok := acumidata.AsNumber(report.Fields["estimated_value"]); ok {
			report.AddDerived("loan_to_value", acumidata.Ratio(body.LoanAmount, value))
		}
	}

	resp := map[string]any{
		"ok":           true,
		"source":       source,
		"environment":  env,
		"endpoint":     desc.Name,
		"property_key": norm.Key,
		"report":       report,
	}
	if role, ok := roles.Parse(body.Role); ok {
		resp["view"] = roles.Apply(role, report)
	}
	render.JSON(w, req, resp)
}

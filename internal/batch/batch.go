package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/canon"
	"github.com/yourorg/property-intel/internal/events"
)

// Row is one property from the uploaded CSV, in input order.
type Row struct {
	Index   int
	Address string
	City    string
	State   string
	Zip     string
}

// RowResult pairs a row with either its report or its error. Exactly one of
// Report/Err is set; the batch as a whole never fails because a row did.
type RowResult struct {
	Row    Row
	Report *acumidata.Report
	Err    string
}

// Processor runs one vendor call per CSV row through a bounded worker pool.
// One worker means strictly sequential processing, which is the default; the
// shared limiter paces vendor calls whatever the worker count.
type Processor struct {
	Client  *acumidata.Client
	Pub     events.Publisher // optional write-behind snapshots
	Log     *slog.Logger
	Workers int
	Limiter *rate.Limiter
	MaxRows int
}

var (
	ErrNoAddressColumn = errors.New("batch: csv is missing an address column")
	ErrEmptyCSV        = errors.New("batch: csv has no data rows")
)

// ReadCSV parses the upload. Header names are case-insensitive and trimmed;
// "zipcode" is accepted as an alias for "zip". Short records become rows with
// blank fields and fail per-row validation later rather than aborting the
// parse.
func (p *Processor) ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("batch: csv parse: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyCSV
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	addrIdx, ok := col["address"]
	if !ok {
		return nil, ErrNoAddressColumn
	}
	zipIdx, hasZip := col["zip"]
	if !hasZip {
		zipIdx, hasZip = col["zipcode"]
	}

	pick := func(rec []string, idx int, ok bool) string {
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		cityIdx, hasCity := col["city"]
		stateIdx, hasState := col["state"]
		rows = append(rows, Row{
			Index:   i,
			Address: pick(rec, addrIdx, true),
			City:    pick(rec, cityIdx, hasCity),
			State:   pick(rec, stateIdx, hasState),
			Zip:     pick(rec, zipIdx, hasZip),
		})
	}
	if p.MaxRows > 0 && len(rows) > p.MaxRows {
		return nil, fmt.Errorf("batch: %d rows exceeds limit of %d", len(rows), p.MaxRows)
	}
	return rows, nil
}

// Run processes every row and returns one result per row in input order,
// regardless of worker completion order. A cancelled context marks the
// remaining rows with the context error instead of dropping them.
func (p *Processor) Run(ctx context.Context, d acumidata.EndpointDescriptor, env acumidata.Environment, rows []Row) []RowResult {
	results := make([]RowResult, len(rows))

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processRow(ctx, d, env, rows[i])
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (p *Processor) processRow(ctx context.Context, d acumidata.EndpointDescriptor, env acumidata.Environment, row Row) RowResult {
	res := RowResult{Row: row}
	if ctx.Err() != nil {
		res.Err = ctx.Err().Error()
		return res
	}

	q := acumidata.Query{Address: row.Address, City: row.City, State: row.State, Zip: row.Zip}
	if err := q.Validate(d); err != nil {
		res.Err = err.Error()
		return res
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			res.Err = err.Error()
			return res
		}
	}

	raw, err := p.Client.Invoke(ctx, d, q, env)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	report, err := acumidata.Parse(d, raw)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Report = report

	if p.Pub != nil {
		norm := canon.Normalize(row.Address, row.City, row.State, row.Zip)
		p.Pub.PublishReportGenerated(ctx, events.ReportGenerated{
			Environment: string(env),
			Endpoint:    d.Name,
			PropertyKey: norm.Key,
			Payload:     raw,
		})
	}
	return res
}

// WriteCSV renders the enriched report: the input columns, the profile's
// display columns, then an error column. Column set is fixed by the profile
// so the output shape is stable even when every row failed.
func WriteCSV(w io.Writer, d acumidata.EndpointDescriptor, results []RowResult) error {
	cw := csv.NewWriter(w)
	display := acumidata.DisplayColumns(d.Profile)

	header := append([]string{"address", "city", "state", "zip"}, display...)
	header = append(header, "error")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		rec := []string{res.Row.Address, res.Row.City, res.Row.State, res.Row.Zip}
		for _, name := range display {
			if res.Report == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, formatValue(res.Report.Fields[name]))
		}
		rec = append(rec, res.Err)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(n)
	}
}

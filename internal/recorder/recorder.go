package recorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/property-intel/internal/events"
	"github.com/yourorg/property-intel/internal/store"
)

// Recorder consumes report.generated events and persists payload snapshots
// write-behind, so vendor responses reach Postgres without adding latency to
// the request that fetched them.
type Recorder struct {
	Pub   events.Publisher
	Store *store.Store
	Log   *slog.Logger
}

func (r *Recorder) Run(ctx context.Context) {
	sub := r.Pub.SubscribeReportGenerated()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := r.Store.InsertSnapshot(writeCtx, store.SnapshotInput{
				Environment: evt.Environment,
				Endpoint:    evt.Endpoint,
				PropertyKey: evt.PropertyKey,
				Payload:     evt.Payload,
			})
			cancel()
			if err != nil {
				r.Log.Warn("snapshot write failed", "endpoint", evt.Endpoint, "err", err)
			}
		}
	}
}

package events

import "context"

// ReportGenerated is emitted after every successful vendor fetch, whether
// from a single lookup or a batch row.
type ReportGenerated struct {
	Environment string
	Endpoint    string
	PropertyKey string
	Payload     []byte
}

type Publisher interface {
	PublishReportGenerated(ctx context.Context, evt ReportGenerated)
	SubscribeReportGenerated() <-chan ReportGenerated
}

type inMemory struct{ ch chan ReportGenerated }

// NewInMemory returns a buffered in-process publisher. Publishing never
// blocks the request path: events are dropped when the buffer is full.
func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan ReportGenerated, buffer)}
}

func (m *inMemory) PublishReportGenerated(_ context.Context, evt ReportGenerated) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeReportGenerated() <-chan ReportGenerated { return m.ch }

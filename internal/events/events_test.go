package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDeliversInOrder(t *testing.T) {
	pub := NewInMemory(4)
	pub.PublishReportGenerated(context.Background(), ReportGenerated{PropertyKey: "a"})
	pub.PublishReportGenerated(context.Background(), ReportGenerated{PropertyKey: "b"})

	ch := pub.SubscribeReportGenerated()
	assert.Equal(t, "a", (<-ch).PropertyKey)
	assert.Equal(t, "b", (<-ch).PropertyKey)
}

func TestInMemoryDropsWhenFull(t *testing.T) {
	pub := NewInMemory(1)
	pub.PublishReportGenerated(context.Background(), ReportGenerated{PropertyKey: "kept"})
	pub.PublishReportGenerated(context.Background(), ReportGenerated{PropertyKey: "dropped"}) // must not block

	ch := pub.SubscribeReportGenerated()
	require.Equal(t, "kept", (<-ch).PropertyKey)
	select {
	case evt := <-ch:
		t.Fatalf("unexpected second event %q", evt.PropertyKey)
	default:
	}
}

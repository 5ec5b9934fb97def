package ports

import "time"

// Renderer presents build progress. Span events arrive from the telemetry
// bridge; compiler output arrives in batches through OnSpanLog.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once with the documents selected for the build.
	OnPlanEmit(documents []string)

	// OnSpanStart is called when a span begins. parentID is empty for root spans.
	OnSpanStart(spanID, parentID, name string, startTime time.Time)

	// OnSpanLog is called with raw output written to a span. Data may hold partial lines.
	OnSpanLog(spanID string, data []byte)

	// OnSpanEnd is called when a span finishes. err is nil on success.
	OnSpanEnd(spanID string, endTime time.Time, err error)

	// OnSpanCached is called instead of OnSpanEnd for a document that was up to date.
	OnSpanCached(spanID string, endTime time.Time)

	// Flush writes any buffered output.
	Flush() error
}

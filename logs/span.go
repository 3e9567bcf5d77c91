package logs

import (
	"context"
	"errors"
	"fmt"
)

// Span identifies one unit of work, such as a single program run, across
// log records and errors.
type Span string

type spanKey struct{}

var SpanKey spanKey

// SpanOf returns the span carried by ctx, if any.
func SpanOf(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(SpanKey).(Span)
	return span, ok
}

// WrapSpan attaches the span in ctx to err so that a failure printed
// later can be matched with its log records.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := SpanOf(ctx)
	if !ok {
		return err
	}
	return errors.Join(err, fmt.Errorf("span: %s", span))
}

package keeper

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/pawswap/x/dex/types"
)

const tracerName = "github.com/paw-chain/pawswap/x/dex"

// WithTracerProvider traces router operations with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(k *Keeper) { k.tracer = tp.Tracer(tracerName) }
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// startSpan opens a span named after a router operation.
func (k *Keeper) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("dex.operation", operation))
	return k.tracer.Start(ctx, "dex."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// endSpan closes span, marking it failed when err is set.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func pathAttr(path types.SwapPath) attribute.KeyValue {
	return attribute.StringSlice("dex.path", path)
}

func hopAttrs(h executedHop) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("dex.pool_id", int64(h.pool.id)),
		attribute.String("dex.asset_in", h.assetIn),
		attribute.String("dex.asset_out", h.assetOut),
		attribute.String("dex.amount_in", h.amountIn.String()),
		attribute.String("dex.amount_out", h.amountOut.String()),
	}
}

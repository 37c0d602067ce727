package telemetry

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// probePrefix marks routes that are neither traced nor measured.
const probePrefix = "/-/"

// TraceHeader echoes the request's trace ID back to the caller.
const TraceHeader = "X-Trace-ID"

// CommunityAttr tags request spans with the community path parameter.
const CommunityAttr = attribute.Key("quotebook.community")

type httpInstruments struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of quote API requests."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Quote API requests in flight."),
	)
	if err != nil {
		return nil, err
	}

	return &httpInstruments{duration: duration, inFlight: inFlight}, nil
}

func isProbe(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, probePrefix)
}

// Middleware measures API requests through the global meter, tags the active
// span with the community and sets TraceHeader. Probes are skipped.
func Middleware() gin.HandlerFunc {
	inst, err := newHTTPInstruments(otel.Meter(InstrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if isProbe(c) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()
		attrs := []attribute.KeyValue{
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.request.method", c.Request.Method),
		}

		if community := c.Param("community"); community != "" {
			trace.SpanFromContext(ctx).SetAttributes(CommunityAttr.String(community))
		}

		if id := TraceID(ctx); id != "" {
			c.Header(TraceHeader, id)
		}

		if inst == nil {
			c.Next()
			return
		}

		inst.inFlight.Add(ctx, 1, metric.WithAttributes(attrs...))
		defer inst.inFlight.Add(ctx, -1, metric.WithAttributes(attrs...))

		c.Next()

		attrs = append(attrs, attribute.Int("http.response.status_code", c.Writer.Status()))
		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	}
}

// TracingMiddleware starts a server span per API request with otelgin.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		return !isProbe(c)
	}))
}

package middleware

import (
	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// feedParams are the route parameters recorded on request spans when present.
var feedParams = []string{"slug", "username", "id"}

// TracingMiddleware opens a server span per request. The span is renamed to the
// matched route template once routing is done, so /api/groups/cats and
// /api/groups/dogs share the name "GET /api/groups/:slug".
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", utils.CopyString(c.Path())),
			),
		)
		defer span.End()

		sc := span.SpanContext()
		c.Locals("traceID", sc.TraceID().String())
		if sc.HasTraceID() {
			c.Set("X-Trace-ID", sc.TraceID().String())
		}
		if page := c.Query("page"); page != "" {
			span.SetAttributes(attribute.String("feed.page", utils.CopyString(page)))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		if route := c.Route(); route != nil && route.Path != "" {
			span.SetName(c.Method() + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
		}
		for _, name := range feedParams {
			if v := c.Params(name); v != "" {
				span.SetAttributes(attribute.String("feed."+name, utils.CopyString(v)))
			}
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			span.SetAttributes(attribute.Int64("viewer.id", int64(uid)))
		}
		span.SetAttributes(attribute.Int("http.status_code", c.Response().StatusCode()))
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}

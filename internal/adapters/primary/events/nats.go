package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/plume/internal/core/ports"
)

// EventHandler consomme les events post.* et purge le cache de pages du feed
// d'accueil : un nouveau post doit apparaître sans attendre l'expiration du TTL.
type EventHandler struct {
	cache ports.PageCache
}

func NewEventHandler(cache ports.PageCache) *EventHandler {
	return &EventHandler{cache: cache}
}

// Subscribe abonne le handler aux sujets post.* sur la connexion donnée.
func (h *EventHandler) Subscribe(nc *nats.Conn) (*nats.Subscription, error) {
	return nc.Subscribe("post.>", h.HandlePostEvent)
}

func (h *EventHandler) HandlePostEvent(msg *nats.Msg) {
	// On relie la trace du consommateur à celle du publisher via les headers.
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("plume")
	ctx, span := tracer.Start(ctx, "invalidate_home_cache", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.cache.InvalidateHome(ctx); err != nil {
		span.RecordError(err)
		slog.Error("❌ Home cache invalidation failed", "subject", msg.Subject, "error", err)
		return
	}
	slog.Debug("✅ Home cache invalidated", "subject", msg.Subject)
}

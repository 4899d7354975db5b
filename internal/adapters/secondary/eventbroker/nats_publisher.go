package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

var _ ports.EventPublisher = (*NatsPublisher)(nil)

// PostEvent est le contrat implicite avec les consommateurs (invalidation du
// cache de pages aujourd'hui, notifications demain).
type PostEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	GroupID   *string   `json:"group_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentEvent struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publishPost(ctx, "post.created", post)
}

func (p *NatsPublisher) PublishPostUpdated(ctx context.Context, post *domain.Post) error {
	return p.publishPost(ctx, "post.updated", post)
}

func (p *NatsPublisher) publishPost(ctx context.Context, subject string, post *domain.Post) error {
	data, err := json.Marshal(PostEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Le TraceID courant voyage dans les headers NATS jusqu'au consommateur.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	return p.nc.PublishMsg(msg)
}

func (p *NatsPublisher) PublishCommentAdded(ctx context.Context, comment *domain.Comment) error {
	data, err := json.Marshal(CommentEvent{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: "comment.added",
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	return p.nc.PublishMsg(msg)
}

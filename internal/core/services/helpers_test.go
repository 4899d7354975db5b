package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/plume/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/plume/internal/core/domain"
)

// nopPublisher coupe la messagerie dans les tests : les services publient en
// best effort, le broker n'a rien à vérifier ici.
type nopPublisher struct{}

func (nopPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error { return nil }
func (nopPublisher) PublishPostUpdated(ctx context.Context, post *domain.Post) error { return nil }
func (nopPublisher) PublishCommentAdded(ctx context.Context, c *domain.Comment) error {
	return nil
}

func seedUser(t *testing.T, store *repository.MemoryStore, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com", "not-a-real-hash")
	require.NoError(t, err)
	require.NoError(t, store.Users().Save(context.Background(), user))
	return user
}

func seedGroup(t *testing.T, store *repository.MemoryStore, title, slug string) *domain.Group {
	t.Helper()
	group := domain.NewGroup(title, slug, "")
	require.NoError(t, store.Groups().Save(context.Background(), group))
	return group
}

func seedPost(t *testing.T, store *repository.MemoryStore, author *domain.User, text string, groupID *string) *domain.Post {
	t.Helper()
	post := domain.NewPost(author.ID, text, "", groupID)
	require.NoError(t, store.Posts().Save(context.Background(), post))
	return post
}

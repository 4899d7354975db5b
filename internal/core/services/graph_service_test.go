package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/plume/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/plume/internal/core/domain"
)

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the edge and resolves the target", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		leo := seedUser(t, store, "leo")
		emma := seedUser(t, store, "emma")

		target, err := svc.Follow(ctx, emma.ID, "leo")
		require.NoError(t, err)
		assert.Equal(t, leo.ID, target.ID)

		following, err := svc.IsFollowing(ctx, emma.ID, leo.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("self follow is a silent no-op", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		leo := seedUser(t, store, "leo")

		target, err := svc.Follow(ctx, leo.ID, "leo")
		require.NoError(t, err)
		assert.Equal(t, leo.ID, target.ID)
		assert.Zero(t, store.RelationCount())
	})

	t.Run("double follow keeps a single edge", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		seedUser(t, store, "leo")
		emma := seedUser(t, store, "emma")

		_, err := svc.Follow(ctx, emma.ID, "leo")
		require.NoError(t, err)
		_, err = svc.Follow(ctx, emma.ID, "leo")
		require.NoError(t, err)

		assert.Equal(t, 1, store.RelationCount())
	})

	t.Run("unknown target", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		emma := seedUser(t, store, "emma")

		_, err := svc.Follow(ctx, emma.ID, "personne")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("the edge is directed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		leo := seedUser(t, store, "leo")
		emma := seedUser(t, store, "emma")

		_, err := svc.Follow(ctx, emma.ID, "leo")
		require.NoError(t, err)

		reverse, err := svc.IsFollowing(ctx, leo.ID, emma.ID)
		require.NoError(t, err)
		assert.False(t, reverse)
	})
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the edge", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		leo := seedUser(t, store, "leo")
		emma := seedUser(t, store, "emma")

		_, err := svc.Follow(ctx, emma.ID, "leo")
		require.NoError(t, err)

		_, err = svc.Unfollow(ctx, emma.ID, "leo")
		require.NoError(t, err)

		following, err := svc.IsFollowing(ctx, emma.ID, leo.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("absent edge is not an error", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewGraphService(store.Users(), store.Graph())
		seedUser(t, store, "leo")
		emma := seedUser(t, store, "emma")

		_, err := svc.Unfollow(ctx, emma.ID, "leo")
		require.NoError(t, err)
		assert.Zero(t, store.RelationCount())
	})
}

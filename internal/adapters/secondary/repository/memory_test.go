package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

func mustUser(t *testing.T, store *MemoryStore, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, store.Users().Save(context.Background(), user))
	return user
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")
	emma := mustUser(t, store, "emma")

	post := domain.NewPost(leo.ID, "de leo", "", nil)
	require.NoError(t, store.Posts().Save(ctx, post))
	keeper := domain.NewPost(emma.ID, "d'emma", "", nil)
	require.NoError(t, store.Posts().Save(ctx, keeper))

	comment := domain.NewComment(keeper.ID, leo.ID, "par leo")
	require.NoError(t, store.Comments().Save(ctx, comment))
	require.NoError(t, store.Graph().CreateRelation(ctx, emma.ID, leo.ID))

	require.NoError(t, store.Users().Delete(ctx, leo.ID))

	_, err := store.Posts().FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	comments, err := store.Comments().ListByPost(ctx, keeper.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	assert.Zero(t, store.RelationCount())

	// Le contenu des autres survit.
	_, err = store.Posts().FindByID(ctx, keeper.ID)
	assert.NoError(t, err)
}

func TestDeleteGroupDetachesPosts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")

	group := domain.NewGroup("Chats", "chats", "")
	require.NoError(t, store.Groups().Save(ctx, group))

	post := domain.NewPost(leo.ID, "miaou", "", &group.ID)
	require.NoError(t, store.Posts().Save(ctx, post))

	require.NoError(t, store.Groups().Delete(ctx, group.ID))

	found, err := store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found.GroupID, "the post must survive detached from its group")
}

func TestDeletePostCascadesComments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")

	post := domain.NewPost(leo.ID, "billet", "", nil)
	require.NoError(t, store.Posts().Save(ctx, post))
	require.NoError(t, store.Comments().Save(ctx, domain.NewComment(post.ID, leo.ID, "un")))

	require.NoError(t, store.Posts().Delete(ctx, post.ID))

	comments, err := store.Comments().ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAuthorFilterNilVersusEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")
	require.NoError(t, store.Posts().Save(ctx, domain.NewPost(leo.ID, "billet", "", nil)))

	// nil = tout le monde.
	all, err := store.Posts().Count(ctx, ports.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, all)

	// Liste vide = personne ("je ne suis aucun auteur").
	none, err := store.Posts().Count(ctx, ports.PostFilter{AuthorIDs: []string{}})
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestListOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")

	var ids []string
	for i := 0; i < 5; i++ {
		p := domain.NewPost(leo.ID, "billet", "", nil)
		require.NoError(t, store.Posts().Save(ctx, p))
		ids = append(ids, p.ID)
	}

	// Les IDs v7 croissent avec l'insertion : le listing doit les rendre en
	// ordre inverse.
	posts, err := store.Posts().List(ctx, ports.PostFilter{}, 3, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, ids[4], posts[0].ID)
	assert.Equal(t, ids[2], posts[2].ID)

	rest, err := store.Posts().List(ctx, ports.PostFilter{}, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, ids[0], rest[1].ID)

	beyond, err := store.Posts().List(ctx, ports.PostFilter{}, 3, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestCopyOnReadIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	leo := mustUser(t, store, "leo")

	post := domain.NewPost(leo.ID, "original", "", nil)
	require.NoError(t, store.Posts().Save(ctx, post))

	found, err := store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	found.Text = "muté hors repository"

	again, err := store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Text)
}

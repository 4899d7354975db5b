package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowHandler(t *testing.T) {
	t.Run("creates the edge and returns to the profile", func(t *testing.T) {
		env := newTestEnv(t)
		leo, _ := env.signup(t, "leo")
		emma, cookie := env.signup(t, "emma")

		rec := env.postForm("/profile/leo/follow/", url.Values{}, cookie)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

		following, err := env.store.Graph().HasRelation(context.Background(), emma.ID, leo.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("self follow redirects without creating anything", func(t *testing.T) {
		env := newTestEnv(t)
		_, cookie := env.signup(t, "leo")

		rec := env.get("/profile/leo/follow/", cookie)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))
		assert.Zero(t, env.store.RelationCount())
	})

	t.Run("unknown target", func(t *testing.T) {
		env := newTestEnv(t)
		_, cookie := env.signup(t, "leo")

		rec := env.postForm("/profile/personne/follow/", url.Values{}, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUnfollowHandler(t *testing.T) {
	t.Run("removes the edge", func(t *testing.T) {
		env := newTestEnv(t)
		leo, _ := env.signup(t, "leo")
		emma, cookie := env.signup(t, "emma")
		require.NoError(t, env.store.Graph().CreateRelation(context.Background(), emma.ID, leo.ID))

		rec := env.postForm("/profile/leo/unfollow/", url.Values{}, cookie)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

		following, err := env.store.Graph().HasRelation(context.Background(), emma.ID, leo.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("absent edge is still a redirect", func(t *testing.T) {
		env := newTestEnv(t)
		env.signup(t, "leo")
		_, cookie := env.signup(t, "emma")

		rec := env.postForm("/profile/leo/unfollow/", url.Values{}, cookie)
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}

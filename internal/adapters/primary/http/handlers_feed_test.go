package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeHandler(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.signup(t, "leo")
	for i := 0; i < 12; i++ {
		env.seedPost(t, author, "billet")
	}

	t.Run("serves the first page by default", func(t *testing.T) {
		rec := env.get("/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pageJSON
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 12, page.TotalCount)
		assert.Len(t, page.Posts, 10)
		assert.Equal(t, "leo", page.Posts[0].Author.Username)
	})

	t.Run("garbage page parameter falls back to page one", func(t *testing.T) {
		rec := env.get("/?page=abc", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pageJSON
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, 1, page.Page)
	})

	t.Run("out of range page is clamped", func(t *testing.T) {
		rec := env.get("/?page=99", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pageJSON
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Posts, 2)
	})
}

func TestGroupFeedHandler(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.signup(t, "leo")
	group := env.seedGroup(t, "Chats", "chats")

	env.seedPost(t, author, "hors groupe")
	inGroup := env.seedPost(t, author, "miaou")
	inGroup.GroupID = &group.ID
	require.NoError(t, env.store.Posts().Update(context.Background(), inGroup))

	t.Run("only the group's posts", func(t *testing.T) {
		rec := env.get("/group/chats/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Group struct {
				Slug string `json:"slug"`
			} `json:"group"`
			Page pageJSON `json:"page"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, "chats", payload.Group.Slug)
		require.Len(t, payload.Page.Posts, 1)
		assert.Equal(t, "miaou", payload.Page.Posts[0].Text)
	})

	t.Run("unknown slug", func(t *testing.T) {
		rec := env.get("/group/poissons/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileHandler(t *testing.T) {
	env := newTestEnv(t)
	leo, _ := env.signup(t, "leo")
	emma, emmaCookie := env.signup(t, "emma")
	env.seedPost(t, leo, "de leo")
	require.NoError(t, env.store.Graph().CreateRelation(context.Background(), emma.ID, leo.ID))

	type profilePayload struct {
		Author struct {
			Username string `json:"username"`
		} `json:"author"`
		Following bool     `json:"following"`
		Page      pageJSON `json:"page"`
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		rec := env.get("/profile/leo/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload profilePayload
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, "leo", payload.Author.Username)
		assert.False(t, payload.Following)
		assert.Len(t, payload.Page.Posts, 1)
	})

	t.Run("follower sees their own state", func(t *testing.T) {
		rec := env.get("/profile/leo/", emmaCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload profilePayload
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.True(t, payload.Following)
	})

	t.Run("unknown username", func(t *testing.T) {
		rec := env.get("/profile/personne/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostDetailHandler(t *testing.T) {
	env := newTestEnv(t)
	leo, _ := env.signup(t, "leo")
	post := env.seedPost(t, leo, "un billet")

	t.Run("post with its comments", func(t *testing.T) {
		rec := env.get("/posts/"+post.ID+"/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Post     postJSON      `json:"post"`
			Comments []commentJSON `json:"comments"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, post.ID, payload.Post.ID)
		assert.Empty(t, payload.Comments)
	})

	t.Run("unknown post", func(t *testing.T) {
		rec := env.get("/posts/absent/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFollowingFeedHandler(t *testing.T) {
	env := newTestEnv(t)
	leo, _ := env.signup(t, "leo")
	noah, _ := env.signup(t, "noah")
	emma, emmaCookie := env.signup(t, "emma")
	env.seedPost(t, leo, "de leo")
	env.seedPost(t, noah, "de noah")

	t.Run("empty when following nobody", func(t *testing.T) {
		rec := env.get("/follow/", emmaCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pageJSON
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Empty(t, page.Posts)
	})

	t.Run("only followed authors", func(t *testing.T) {
		require.NoError(t, env.store.Graph().CreateRelation(context.Background(), emma.ID, leo.ID))

		rec := env.get("/follow/", emmaCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pageJSON
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "de leo", page.Posts[0].Text)
	})

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		rec := env.get("/follow/", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}

func TestUnknownPathIs404(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/nope", "/group/", "/posts/x/extra/"} {
		rec := env.get(path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

// MemoryStore implémente tous les ports driven de persistance en mémoire,
// avec les mêmes règles de cascade que le schéma SQL (suppression d'un user
// -> ses posts et commentaires ; suppression d'un groupe -> group_id à nil ;
// suppression d'un post -> ses commentaires). Il sert aux suites de tests et
// au mode local sans infrastructure. Les vues typées Users()/Groups()/Posts()
// /Comments() exposent chaque port sans collision de noms de méthodes.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	groups   map[string]*domain.Group
	posts    map[string]*domain.Post
	comments map[string]*domain.Comment
	// relations est indexée par la paire dirigée (user, author) : l'unicité de
	// l'arête est structurelle, comme la contrainte du store réel.
	relations map[[2]string]domain.Relation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*domain.User),
		groups:    make(map[string]*domain.Group),
		posts:     make(map[string]*domain.Post),
		comments:  make(map[string]*domain.Comment),
		relations: make(map[[2]string]domain.Relation),
	}
}

func (m *MemoryStore) Users() ports.UserRepository       { return memUsers{m} }
func (m *MemoryStore) Groups() ports.GroupRepository     { return memGroups{m} }
func (m *MemoryStore) Posts() ports.PostRepository       { return memPosts{m} }
func (m *MemoryStore) Comments() ports.CommentRepository { return memComments{m} }
func (m *MemoryStore) Graph() ports.GraphRepository      { return m }

var _ ports.GraphRepository = (*MemoryStore)(nil)

// --- Users ---

type memUsers struct{ s *MemoryStore }

func (r memUsers) Save(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameAlreadyTaken
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	for pid, p := range r.s.posts {
		if p.AuthorID == id {
			r.s.deletePostLocked(pid)
		}
	}
	for cid, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	for pair := range r.s.relations {
		if pair[0] == id || pair[1] == id {
			delete(r.s.relations, pair)
		}
	}
	return nil
}

// --- Groups ---

type memGroups struct{ s *MemoryStore }

func (r memGroups) Save(ctx context.Context, group *domain.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.groups {
		if g.Slug == group.Slug {
			return domain.ErrSlugAlreadyTaken
		}
	}
	c := *group
	r.s.groups[group.ID] = &c
	return nil
}

func (r memGroups) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	c := *g
	return &c, nil
}

func (r memGroups) GetBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.groups {
		if g.Slug == slug {
			c := *g
			return &c, nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r memGroups) List(ctx context.Context) ([]*domain.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Group, 0, len(r.s.groups))
	for _, g := range r.s.groups {
		c := *g
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r memGroups) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.groups, id)
	// SET NULL, pas de suppression : les posts survivent à leur groupe.
	for _, p := range r.s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
		}
	}
	return nil
}

// --- Posts ---

type memPosts struct{ s *MemoryStore }

func (r memPosts) Save(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := clonePost(post)
	c.Author, c.Group = nil, nil
	r.s.posts[post.ID] = c
	return nil
}

func (r memPosts) Update(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	c := clonePost(post)
	c.Author, c.Group = nil, nil
	r.s.posts[post.ID] = c
	return nil
}

func (r memPosts) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.s.hydrateLocked(p), nil
}

func (r memPosts) List(ctx context.Context, f ports.PostFilter, limit, offset int) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.s.matchLocked(f)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return []*domain.Post{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*domain.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		out = append(out, r.s.hydrateLocked(p))
	}
	return out, nil
}

func (r memPosts) Count(ctx context.Context, f ports.PostFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.matchLocked(f)), nil
}

func (r memPosts) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deletePostLocked(id)
	return nil
}

// --- Comments ---

type memComments struct{ s *MemoryStore }

func (r memComments) Save(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return domain.ErrPostNotFound
	}
	c := *comment
	c.Author = nil
	r.s.comments[comment.ID] = &c
	return nil
}

func (r memComments) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			cc := *c
			if author, ok := r.s.users[c.AuthorID]; ok {
				a := *author
				cc.Author = &a
			}
			out = append(out, &cc)
		}
	}
	// Du plus ancien au plus récent ; les IDs v7 départagent les ex aequo.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// --- Graphe ---

func (m *MemoryStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *MemoryStore) CreateRelation(ctx context.Context, userID, authorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]string{userID, authorID}
	if _, exists := m.relations[key]; !exists {
		m.relations[key] = domain.Relation{UserID: userID, AuthorID: authorID, CreatedAt: time.Now().UTC()}
	}
	return nil
}

func (m *MemoryStore) DeleteRelation(ctx context.Context, userID, authorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.relations, [2]string{userID, authorID})
	return nil
}

func (m *MemoryStore) HasRelation(ctx context.Context, userID, authorID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.relations[[2]string{userID, authorID}]
	return ok, nil
}

func (m *MemoryStore) ListFollowedIDs(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []string{}
	for pair := range m.relations {
		if pair[0] == userID {
			out = append(out, pair[1])
		}
	}
	sort.Strings(out)
	return out, nil
}

// RelationCount sert aux tests d'idempotence.
func (m *MemoryStore) RelationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.relations)
}

// --- Helpers internes (lock déjà pris) ---

func (m *MemoryStore) matchLocked(f ports.PostFilter) []*domain.Post {
	var allowed map[string]bool
	if f.AuthorIDs != nil {
		allowed = make(map[string]bool, len(f.AuthorIDs))
		for _, id := range f.AuthorIDs {
			allowed[id] = true
		}
	}

	matched := []*domain.Post{}
	for _, p := range m.posts {
		if f.GroupID != "" && (p.GroupID == nil || *p.GroupID != f.GroupID) {
			continue
		}
		if allowed != nil && !allowed[p.AuthorID] {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func (m *MemoryStore) hydrateLocked(p *domain.Post) *domain.Post {
	c := clonePost(p)
	if author, ok := m.users[p.AuthorID]; ok {
		a := *author
		c.Author = &a
	}
	if p.GroupID != nil {
		if group, ok := m.groups[*p.GroupID]; ok {
			g := *group
			c.Group = &g
		}
	}
	return c
}

func (m *MemoryStore) deletePostLocked(id string) {
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	if p.GroupID != nil {
		gid := *p.GroupID
		c.GroupID = &gid
	}
	return &c
}

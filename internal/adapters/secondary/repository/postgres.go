package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

// postColumns sont les colonnes renvoyées par toutes les lectures de posts :
// le post, son auteur (jointure) et son groupe (jointure externe, nullable).
// Jointures explicites partout : aucun lazy-loading, donc aucun N+1 caché.
const postColumns = `
	p.id, p.text, p.image_url, p.author_id, p.group_id, p.created_at,
	u.username, u.email,
	g.title, g.slug, g.description
`

const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id
`

// --- USERS ---

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

var _ ports.UserRepository = (*PostgresUserRepo)(nil)

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (@id, @username, @email, @password_hash, @created_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translateUnique(err, domain.ErrUsernameAlreadyTaken)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PostgresUserRepo) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	q := fmt.Sprintf(`SELECT id, username, email, password_hash, created_at FROM users WHERE %s = $1`, column)

	var u domain.User
	err := r.db.QueryRow(ctx, q, value).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: get user by %s: %w", column, err)
	}
	return &u, nil
}

// Delete s'appuie sur les FK ON DELETE CASCADE : les posts et commentaires de
// l'utilisateur partent avec lui.
func (r *PostgresUserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// --- GROUPS ---

type PostgresGroupRepo struct {
	db *pgxpool.Pool
}

func NewPostgresGroupRepo(pool *pgxpool.Pool) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: pool}
}

var _ ports.GroupRepository = (*PostgresGroupRepo)(nil)

func (r *PostgresGroupRepo) Save(ctx context.Context, group *domain.Group) error {
	q := `
		INSERT INTO groups (id, title, slug, description)
		VALUES (@id, @title, @slug, @description)
	`
	args := pgx.NamedArgs{
		"id":          group.ID,
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translateUnique(err, domain.ErrSlugAlreadyTaken)
	}
	return nil
}

func (r *PostgresGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresGroupRepo) GetBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *PostgresGroupRepo) getBy(ctx context.Context, column, value string) (*domain.Group, error) {
	q := fmt.Sprintf(`SELECT id, title, slug, description FROM groups WHERE %s = $1`, column)

	var g domain.Group
	err := r.db.QueryRow(ctx, q, value).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("db: get group by %s: %w", column, err)
	}
	return &g, nil
}

func (r *PostgresGroupRepo) List(ctx context.Context) ([]*domain.Group, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, slug, description FROM groups ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("db: list groups: %w", err)
	}
	defer rows.Close()

	groups := []*domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

// Delete ne touche pas aux posts : le FK ON DELETE SET NULL les détache.
func (r *PostgresGroupRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

// --- POSTS ---

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(pool *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: pool}
}

var _ ports.PostRepository = (*PostgresPostRepo)(nil)

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, text, image_url, author_id, group_id, created_at)
		VALUES (@id, @text, @image_url, @author_id, @group_id, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         post.ID,
		"text":       post.Text,
		"image_url":  post.ImageURL,
		"author_id":  post.AuthorID,
		"group_id":   post.GroupID,
		"created_at": post.CreatedAt,
	}

	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *PostgresPostRepo) Update(ctx context.Context, post *domain.Post) error {
	q := `
		UPDATE posts
		SET text = @text, image_url = @image_url, group_id = @group_id
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":        post.ID,
		"text":      post.Text,
		"image_url": post.ImageURL,
		"group_id":  post.GroupID,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + postFrom + ` WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: find post: %w", err)
	}
	return post, nil
}

func (r *PostgresPostRepo) List(ctx context.Context, f ports.PostFilter, limit, offset int) ([]*domain.Post, error) {
	where, args := filterClause(f)

	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s %s %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		postColumns, postFrom, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostgresPostRepo) Count(ctx context.Context, f ports.PostFilter) (int, error) {
	where, args := filterClause(f)
	q := `SELECT COUNT(*) FROM posts p ` + where

	var n int
	if err := r.db.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db: count posts: %w", err)
	}
	return n, nil
}

func (r *PostgresPostRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

// filterClause construit le WHERE commun à List et Count. Le placeholder
// repart de $1 ; List ajoute LIMIT/OFFSET à la suite des args.
func filterClause(f ports.PostFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if f.GroupID != "" {
		args = append(args, f.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.AuthorIDs != nil {
		args = append(args, f.AuthorIDs)
		conds = append(conds, fmt.Sprintf("p.author_id = ANY($%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		p          domain.Post
		username   string
		email      string
		groupTitle *string
		groupSlug  *string
		groupDesc  *string
	)

	err := row.Scan(
		&p.ID, &p.Text, &p.ImageURL, &p.AuthorID, &p.GroupID, &p.CreatedAt,
		&username, &email,
		&groupTitle, &groupSlug, &groupDesc,
	)
	if err != nil {
		return nil, err
	}

	p.Author = &domain.User{ID: p.AuthorID, Username: username, Email: email}
	if p.GroupID != nil && groupTitle != nil {
		p.Group = &domain.Group{ID: *p.GroupID, Title: *groupTitle, Slug: *groupSlug, Description: *groupDesc}
	}
	return &p, nil
}

// --- COMMENTS ---

type PostgresCommentRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCommentRepo(pool *pgxpool.Pool) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: pool}
}

var _ ports.CommentRepository = (*PostgresCommentRepo)(nil)

func (r *PostgresCommentRepo) Save(ctx context.Context, comment *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author_id, text, created_at)
		VALUES (@id, @post_id, @author_id, @text, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"text":       comment.Text,
		"created_at": comment.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		// FK post_id violée = le post a disparu entre-temps.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrPostNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresCommentRepo) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	q := `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username, u.email
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("db: list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		var (
			c        domain.Comment
			username string
			email    string
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &username, &email); err != nil {
			return nil, err
		}
		c.Author = &domain.User{ID: c.AuthorID, Username: username, Email: email}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// translateUnique traduit le code 23505 (unique violation) de Postgres vers
// l'erreur domaine attendue par le service.
func translateUnique(err error, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return sentinel
	}
	return err
}

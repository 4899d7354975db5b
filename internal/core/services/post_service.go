package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

type PostService struct {
	posts     ports.PostRepository
	comments  ports.CommentRepository
	groups    ports.GroupRepository
	publisher ports.EventPublisher
}

func NewPostService(posts ports.PostRepository, comments ports.CommentRepository, groups ports.GroupRepository, pub ports.EventPublisher) *PostService {
	return &PostService{posts: posts, comments: comments, groups: groups, publisher: pub}
}

func (s *PostService) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if errs := domain.ValidatePostInput(cmd.Text); errs != nil {
		return nil, errs
	}
	if err := s.resolveGroup(ctx, cmd.GroupID); err != nil {
		return nil, err
	}

	post := domain.NewPost(cmd.AuthorID, cmd.Text, cmd.ImageURL, cmd.GroupID)

	// 1. Sauvegarde DB (source of truth)
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Publication événement, best effort : la donnée est sauvée, on ne fait
	// pas échouer la requête utilisateur si le broker est down.
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.Error("❌ Failed to publish post.created", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *PostService) EditPost(ctx context.Context, cmd ports.EditPostCmd) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, cmd.PostID)
	if err != nil {
		return nil, err
	}

	// Vérification de propriété AVANT la validation : un non-auteur ressort
	// d'ici sans qu'aucun champ ne soit touché, et le handler redirige vers le
	// détail comme pour une édition réussie.
	if post.AuthorID != cmd.UserID {
		return nil, domain.ErrNotPostAuthor
	}

	if errs := domain.ValidatePostInput(cmd.Text); errs != nil {
		return nil, errs
	}
	if err := s.resolveGroup(ctx, cmd.GroupID); err != nil {
		return nil, err
	}

	post.Text = cmd.Text
	post.GroupID = cmd.GroupID
	post.ImageURL = cmd.ImageURL
	post.Group = nil // l'hydratation n'est plus valable après réassignation

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishPostUpdated(ctx, post); err != nil {
		slog.Error("❌ Failed to publish post.updated", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *PostService) GetDetail(ctx context.Context, postID string) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &ports.PostDetail{Post: post, Comments: comments}, nil
}

func (s *PostService) AddComment(ctx context.Context, cmd ports.AddCommentCmd) (*domain.Comment, error) {
	// Le post doit exister avant toute validation de saisie (404 prioritaire).
	if _, err := s.posts.FindByID(ctx, cmd.PostID); err != nil {
		return nil, err
	}

	if errs := domain.ValidateCommentInput(cmd.Text); errs != nil {
		return nil, errs
	}

	comment := domain.NewComment(cmd.PostID, cmd.AuthorID, cmd.Text)
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishCommentAdded(ctx, comment); err != nil {
		slog.Error("❌ Failed to publish comment.added", "comment_id", comment.ID, "error", err)
	}

	return comment, nil
}

func (s *PostService) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

// resolveGroup vérifie que le groupe ciblé existe (nil = pas de groupe, ok).
func (s *PostService) resolveGroup(ctx context.Context, groupID *string) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return domain.FieldErrors{"group": "group does not exist"}
		}
		return err
	}
	return nil
}

package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("post not found")

// Service contains feed business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a post service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Feed returns posts newest first. Like and comment counts come from the
// same statement, and liked_by_me is derived for the caller (always false
// for anonymous readers).
func (s *Service) Feed(ctx context.Context, callerID string) ([]Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.content, p.image_url, p.created_at,
		       u.id, u.name, u.image,
		       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		       EXISTS(SELECT 1 FROM post_likes pl
		               WHERE pl.post_id = p.id AND pl.user_id = $1)
		  FROM posts p
		  JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Content, &p.ImageURL, &p.CreatedAt,
			&p.User.ID, &p.User.Name, &p.User.Image,
			&p.Likes, &p.NrOfComments, &p.LikedByMe); err != nil {
			return nil, err
		}
		feed = append(feed, p)
	}
	return feed, rows.Err()
}

// Create inserts a post. Text-only and image-only posts are both valid;
// an empty post is not.
func (s *Service) Create(ctx context.Context, authorID string, req CreateRequest) (*Post, error) {
	content := strings.TrimSpace(req.Content)
	imageURL := strings.TrimSpace(req.ImageURL)
	if content == "" && imageURL == "" {
		return nil, errors.New("post needs content or an image")
	}

	var contentPtr, imagePtr *string
	if content != "" {
		contentPtr = &content
	}
	if imageURL != "" {
		imagePtr = &imageURL
	}

	id := uuid.New().String()
	var p Post
	err := s.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO posts (id, user_id, content, image_url)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, content, image_url, created_at
		)
		SELECT i.id, i.content, i.image_url, i.created_at, u.id, u.name, u.image
		  FROM inserted i JOIN users u ON u.id = i.user_id`,
		id, authorID, contentPtr, imagePtr).
		Scan(&p.ID, &p.Content, &p.ImageURL, &p.CreatedAt,
			&p.User.ID, &p.User.Name, &p.User.Image)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ToggleLike flips the caller's like on a post: the insert is attempted
// first, and a no-op insert (already liked) becomes a delete.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1)`, postID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	tag, err := s.db.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, postID, userID)
	if err != nil {
		return nil, err
	}
	liked := tag.RowsAffected() > 0
	if !liked {
		if _, err := s.db.Exec(ctx,
			`DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID); err != nil {
			return nil, err
		}
	}

	var likes int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id=$1`, postID).Scan(&likes); err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

// Comments lists a post's comments oldest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.parent_id, c.content, c.created_at,
		       u.id, u.name, u.image
		  FROM comments c
		  JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.ParentID, &c.Content, &c.CreatedAt,
			&c.User.ID, &c.User.Name, &c.User.Image); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AddComment attaches a comment (optionally threaded) to a post.
func (s *Service) AddComment(ctx context.Context, postID, authorID string, req CommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errors.New("comment content is required")
	}

	id := uuid.New().String()
	var c Comment
	err := s.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO comments (id, post_id, user_id, parent_id, content)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, post_id, user_id, parent_id, content, created_at
		)
		SELECT i.id, i.post_id, i.parent_id, i.content, i.created_at,
		       u.id, u.name, u.image
		  FROM inserted i JOIN users u ON u.id = i.user_id`,
		id, postID, authorID, req.ParentID, content).
		Scan(&c.ID, &c.PostID, &c.ParentID, &c.Content, &c.CreatedAt,
			&c.User.ID, &c.User.Name, &c.User.Image)
	if err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/postboard-go/apperror"
)

// PostgresRepository is the pgx-backed posts Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a posts Repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	query := `INSERT INTO posts (title, body, author_id)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, post.Title, post.Body, post.AuthorID).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Post, error) {
	var post Post
	query := `SELECT id, title, body, author_id, created_at FROM posts WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to get post %d", id), err)
	}
	return &post, nil
}

func (r *PostgresRepository) GetWithAuthor(ctx context.Context, id int) (*PostWithAuthor, error) {
	var post PostWithAuthor
	query := `SELECT p.id, p.title, p.body, p.created_at, u.id, u.username
	          FROM posts p
	          JOIN users u ON u.id = p.author_id
	          WHERE p.id = $1`
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.CreatedAt, &post.Author.ID, &post.Author.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to get post %d", id), err)
	}
	return &post, nil
}

func (r *PostgresRepository) UpdateBody(ctx context.Context, id int, body *string) (*Post, error) {
	var post Post
	query := `UPDATE posts SET body = $1 WHERE id = $2
	          RETURNING id, title, body, author_id, created_at`
	err := r.pool.QueryRow(ctx, query, body, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to update post %d", id), err)
	}
	return &post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (*Post, error) {
	var post Post
	query := `DELETE FROM posts WHERE id = $1
	          RETURNING id, title, body, author_id, created_at`
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to delete post %d", id), err)
	}
	return &post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]PostWithAuthor, error) {
	return r.list(ctx, `SELECT p.id, p.title, p.body, p.created_at, u.id, u.username
	                    FROM posts p
	                    JOIN users u ON u.id = p.author_id
	                    ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID int) ([]PostWithAuthor, error) {
	return r.list(ctx, `SELECT p.id, p.title, p.body, p.created_at, u.id, u.username
	                    FROM posts p
	                    JOIN users u ON u.id = p.author_id
	                    WHERE p.author_id = $1
	                    ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]PostWithAuthor, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	defer rows.Close()

	result := []PostWithAuthor{}
	for rows.Next() {
		var post PostWithAuthor
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.CreatedAt, &post.Author.ID, &post.Author.Username); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan post row", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate post rows", err)
	}
	return result, nil
}

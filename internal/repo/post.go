package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/userposts/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type PostRepo struct {
	DB Connector
}

func NewPostRepo(db Connector) *PostRepo {
	return &PostRepo{DB: db}
}

const postColumns = `id, user_id, title, content, created_at`

// ========================
// CREATE POST
// ========================

// Create inserts post and sets the generated ID and creation time on it.
// The owning user must exist.
func (r *PostRepo) Create(ctx context.Context, post *models.Post) error {
	if post == nil {
		return finish(entityPost, "create", fmt.Errorf("%w: nil post", ErrInvalidEntity))
	}
	if err := models.Validate(post); err != nil {
		return finish(entityPost, "create", fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		var created models.Post
		err := conn.QueryRowContext(ctx,
			`INSERT INTO post (user_id, title, content)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at`,
			post.UserID, post.Title, post.Content,
		).Scan(&created.ID, &created.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && created.ID <= 0) {
			return ErrNoGeneratedKey
		}
		if err != nil {
			return err
		}
		post.ID = created.ID
		post.CreatedAt = created.CreatedAt
		return nil
	})

	return finish(entityPost, "create", err)
}

// ========================
// FIND POST BY ID
// ========================

// FindByID returns the post with id. found is false when no such post exists.
func (r *PostRepo) FindByID(ctx context.Context, id int) (models.Post, bool, error) {
	var post models.Post
	found := false

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx,
			`SELECT `+postColumns+`
			 FROM post
			 WHERE id = $1`,
			id,
		).Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return models.Post{}, false, finish(entityPost, "find_by_id", err)
	}

	return post, found, finish(entityPost, "find_by_id", nil)
}

// ========================
// LIST POSTS
// ========================

// FindAll returns every post, newest first.
func (r *PostRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	posts, err := r.list(ctx,
		`SELECT `+postColumns+` FROM post ORDER BY created_at DESC, id DESC`)
	return posts, finish(entityPost, "find_all", err)
}

// FindByUserID returns the posts of one user, newest first. A user without
// posts yields an empty slice.
func (r *PostRepo) FindByUserID(ctx context.Context, userID int) ([]models.Post, error) {
	posts, err := r.list(ctx,
		`SELECT `+postColumns+` FROM post WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	return posts, finish(entityPost, "find_by_user_id", err)
}

func (r *PostRepo) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	posts := []models.Post{}

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Post
			if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt); err != nil {
				return err
			}
			posts = append(posts, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ========================
// UPDATE POST
// ========================

// Update overwrites title and content. The owning user never changes.
func (r *PostRepo) Update(ctx context.Context, post models.Post) error {
	if err := models.ValidateFields(post, "Title", "Content"); err != nil {
		return finish(entityPost, "update", fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			`UPDATE post
			 SET title = $1, content = $2
			 WHERE id = $3`,
			post.Title, post.Content, post.ID,
		)
		if err != nil {
			return err
		}
		return checkRowsAffected(result, ErrPostNotFound)
	})

	return finish(entityPost, "update", err)
}

// ========================
// DELETE POSTS
// ========================

func (r *PostRepo) Delete(ctx context.Context, id int) error {
	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM post WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(result, ErrPostNotFound)
	})

	return finish(entityPost, "delete", err)
}

// DeleteByUserID removes all posts of a user and returns how many were removed.
func (r *PostRepo) DeleteByUserID(ctx context.Context, userID int) (int64, error) {
	var n int64

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM post WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		n, err = result.RowsAffected()
		return err
	})

	return n, finish(entityPost, "delete_by_user_id", err)
}

// ========================
// COUNT POSTS
// ========================

func (r *PostRepo) CountByUserID(ctx context.Context, userID int) (int, error) {
	var n int

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM post WHERE user_id = $1`, userID).Scan(&n)
	})

	return n, finish(entityPost, "count_by_user_id", err)
}

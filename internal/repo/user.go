package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/userposts/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB Connector
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db Connector) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================

// Create inserts user and sets the generated ID on it. The password is stored
// as given.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return finish(entityUser, "create", fmt.Errorf("%w: nil user", ErrInvalidEntity))
	}
	if err := models.Validate(user); err != nil {
		return finish(entityUser, "create", fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	query := `
		INSERT INTO "user" (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		var id int
		err := conn.QueryRowContext(ctx, query, user.Username, user.Email, user.Password).
			Scan(&id)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && id <= 0) {
			return ErrNoGeneratedKey
		}
		if err != nil {
			return err
		}
		user.ID = id
		return nil
	})

	return finish(entityUser, "create", err)
}

// ==========================
// Find By ID
// ==========================

// FindByID returns the user with id. found is false when no such user exists.
func (r *UserRepo) FindByID(ctx context.Context, id int) (user models.User, found bool, err error) {
	query := `
		SELECT id, username, email, password
		FROM "user"
		WHERE id = $1
	`

	user, found, err = r.findOne(ctx, query, id)
	return user, found, finish(entityUser, "find_by_id", err)
}

// ==========================
// Find By Username
// ==========================
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (user models.User, found bool, err error) {
	query := `
		SELECT id, username, email, password
		FROM "user"
		WHERE username = $1
	`

	user, found, err = r.findOne(ctx, query, username)
	return user, found, finish(entityUser, "find_by_username", err)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (models.User, bool, error) {
	var user models.User
	found := false

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, query, arg).
			Scan(&user.ID, &user.Username, &user.Email, &user.Password)
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
		return models.User{}, false, err
	}

	return user, found, nil
}

// ==========================
// Find All Users
// ==========================

// FindAll returns every user ordered by ID.
func (r *UserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT id, username, email, password FROM "user" ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, finish(entityUser, "find_all", err)
	}

	return users, finish(entityUser, "find_all", nil)
}

// ==========================
// Update User
// ==========================

// Update overwrites username, email and password of the user with user.ID.
func (r *UserRepo) Update(ctx context.Context, user models.User) error {
	if err := models.Validate(user); err != nil {
		return finish(entityUser, "update", fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	query := `
		UPDATE "user"
		SET username = $1, email = $2, password = $3
		WHERE id = $4
	`

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, user.Username, user.Email, user.Password, user.ID)
		if err != nil {
			return err
		}
		return checkRowsAffected(result, ErrUserNotFound)
	})

	return finish(entityUser, "update", err)
}

// ==========================
// Delete User
// ==========================

// Delete removes the user. Its posts go with it (ON DELETE CASCADE).
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(result, ErrUserNotFound)
	})

	return finish(entityUser, "delete", err)
}

// ==========================
// Username Exists
// ==========================
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM "user" WHERE username = $1)`,
			username,
		).Scan(&exists)
	})

	return exists, finish(entityUser, "username_exists", err)
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int

	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&n)
	})

	return n, finish(entityUser, "count", err)
}

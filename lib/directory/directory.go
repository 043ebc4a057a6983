// Package directory is a small identity backend: it maps remote logins
// onto canonical user records. The connector only depends on the resolver
// interface; this implementation keeps the records in sqlite.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"kmconnect-backend/lib/directory/db"
)

type User struct {
	Login     string
	FirstName string
	LastName  string
}

type Service struct {
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{qry: db.New(database)}
}

// FindByLogin returns the canonical record for a login, or false when the
// login is unknown to the directory.
func (s Service) FindByLogin(ctx context.Context, login string) (User, bool) {
	row, err := s.qry.GetUser(ctx, login)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false
	}
	if err != nil {
		slog.ErrorContext(ctx, "directory lookup failed", "login", login, "err", err)
		return User{}, false
	}
	return User{
		Login:     row.Login,
		FirstName: row.FirstName,
		LastName:  row.LastName,
	}, true
}

func (s Service) Put(ctx context.Context, user User) error {
	return s.qry.CreateUser(ctx, db.User{
		Login:     user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

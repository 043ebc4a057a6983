package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(database *sql.DB) *Queries {
	return &Queries{db: database}
}

type User struct {
	Login     string
	FirstName string
	LastName  string
}

const getUser = `SELECT login, first_name, last_name FROM users WHERE login = ?`

func (q *Queries) GetUser(ctx context.Context, login string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, login)
	var u User
	err := row.Scan(&u.Login, &u.FirstName, &u.LastName)
	return u, err
}

const createUser = `
INSERT INTO users (login, first_name, last_name)
VALUES (?, ?, ?)
ON CONFLICT (login) DO UPDATE SET
    first_name = excluded.first_name,
    last_name = excluded.last_name
`

func (q *Queries) CreateUser(ctx context.Context, u User) error {
	_, err := q.db.ExecContext(ctx, createUser, u.Login, u.FirstName, u.LastName)
	return err
}

package store

import (
	"database/sql"
	"time"
)

// CreateUser inserts a new account with an already-hashed password.
func (db *DB) CreateUser(email, passwordHash string) error {
	_, err := db.Exec(`
		INSERT INTO users (email, password, created_at)
		VALUES (?, ?, ?)`,
		email, passwordHash, time.Now().UnixMilli())
	return err
}

// PasswordHash returns the stored hash for email, or "" when the account
// does not exist.
func (db *DB) PasswordHash(email string) (string, error) {
	var hash string
	err := db.QueryRow(`SELECT password FROM users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// InsertToken records an issued bearer token for email.
func (db *DB) InsertToken(token, email string) error {
	_, err := db.Exec(`
		INSERT INTO tokens (token, email, created_at)
		VALUES (?, ?, ?)`,
		token, email, time.Now().UnixMilli())
	return err
}

// EmailForToken resolves a bearer token to its account, or "" when the
// token is unknown.
func (db *DB) EmailForToken(token string) (string, error) {
	var email string
	err := db.QueryRow(`SELECT email FROM tokens WHERE token = ?`, token).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

// DeleteToken revokes a bearer token. Unknown tokens are not an error.
func (db *DB) DeleteToken(token string) error {
	_, err := db.Exec(`DELETE FROM tokens WHERE token = ?`, token)
	return err
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ananyak/chatterm/internal/api"
)

// ChatRecord is one stored conversation. Messages are kept as a JSON column,
// mirroring the upstream backend's schema.
type ChatRecord struct {
	ChatID     string
	OwnerEmail string
	ChatTitle  string
	Messages   []api.Message
}

// CreateChat inserts a new conversation with its initial messages.
func (db *DB) CreateChat(rec *ChatRecord) error {
	payload, err := json.Marshal(rec.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		INSERT INTO chats (chat_id, owner_email, chat_title, messages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ChatID, rec.OwnerEmail, rec.ChatTitle, string(payload), now, now)
	return err
}

// ListChats returns the id and title of every conversation owned by email,
// oldest first.
func (db *DB) ListChats(email string) ([]api.ChatSummary, error) {
	rows, err := db.Query(`
		SELECT chat_id, chat_title FROM chats
		WHERE owner_email = ?
		ORDER BY created_at ASC`, email)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chats := []api.ChatSummary{}
	for rows.Next() {
		var c api.ChatSummary
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetChat returns one conversation owned by email, or nil when absent.
func (db *DB) GetChat(email, chatID string) (*ChatRecord, error) {
	var rec ChatRecord
	var payload string
	err := db.QueryRow(`
		SELECT chat_id, owner_email, chat_title, messages FROM chats
		WHERE chat_id = ? AND owner_email = ?`, chatID, email).
		Scan(&rec.ChatID, &rec.OwnerEmail, &rec.ChatTitle, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return &rec, nil
}

// AppendMessages adds messages to an existing conversation's transcript.
func (db *DB) AppendMessages(email, chatID string, msgs ...api.Message) error {
	rec, err := db.GetChat(email, chatID)
	if err != nil {
		return err
	}
	if rec == nil {
		return sql.ErrNoRows
	}
	payload, err := json.Marshal(append(rec.Messages, msgs...))
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	_, err = db.Exec(`
		UPDATE chats SET messages = ?, updated_at = ?
		WHERE chat_id = ? AND owner_email = ?`,
		string(payload), time.Now().UnixMilli(), chatID, email)
	return err
}

// RenameChat updates a conversation's title. Returns sql.ErrNoRows when the
// conversation does not exist for this owner.
func (db *DB) RenameChat(email, chatID, title string) error {
	res, err := db.Exec(`
		UPDATE chats SET chat_title = ?, updated_at = ?
		WHERE chat_id = ? AND owner_email = ?`,
		title, time.Now().UnixMilli(), chatID, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteChat removes a conversation. Returns sql.ErrNoRows when absent.
func (db *DB) DeleteChat(email, chatID string) error {
	res, err := db.Exec(`
		DELETE FROM chats WHERE chat_id = ? AND owner_email = ?`, chatID, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ChatCount returns the number of stored conversations across all owners.
func (db *DB) ChatCount() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM chats`).Scan(&n)
	return n, err
}

// Package localdb holds client-side state that must survive restarts: the
// stored credentials, small UI settings, and the notification inbox.
package localdb

import (
	"database/sql"
	_ "embed"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Setting keys used by the client.
const (
	SettingToken    = "access_token"
	SettingUserID   = "user_id"
	SettingUsername = "username"
	SettingLastView = "last_view"
)

// DB wraps the local sqlite database
type DB struct {
	*sql.DB
}

// Open opens (and if necessary initializes) the local database at path
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// GetSetting retrieves a setting value by key; missing keys return ""
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a setting if present
func (db *DB) DeleteSetting(key string) error {
	_, err := db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// ClearCredentials drops the stored token and user identity. Called on any
// authentication failure.
func (db *DB) ClearCredentials() error {
	for _, key := range []string{SettingToken, SettingUserID, SettingUsername} {
		if err := db.DeleteSetting(key); err != nil {
			return err
		}
	}
	return nil
}

package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTeamTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createVendorCredentialTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE vendor_credentials (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		vendor TEXT NOT NULL,
		name TEXT NOT NULL,
		encrypted_key TEXT NOT NULL,
		usage_count INTEGER DEFAULT 0 NOT NULL,
		last_used_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createChatEmbedTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chat_embeds (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		name TEXT NOT NULL,
		system_prompt TEXT,
		credential_id TEXT,
		model_name TEXT NOT NULL,
		is_active BOOLEAN DEFAULT 1 NOT NULL,
		settings TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createChatMessageTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chat_messages (
		id TEXT PRIMARY KEY,
		embed_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createUsageRecordTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE usage_records (
		id TEXT PRIMARY KEY,
		embed_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL,
		completion_tokens INTEGER NOT NULL,
		total_tokens INTEGER NOT NULL,
		model_name TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT,
		client_ip TEXT,
		created_at DATETIME
	);`)
}

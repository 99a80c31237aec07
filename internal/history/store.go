// Package history 使用 SQLite 持久化音程练习记录。
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rmls/musicgap/internal/logger"
	"github.com/rmls/musicgap/internal/trainer"
)

// IntervalStat 是某个音程（半音数）的作答统计。
type IntervalStat struct {
	Interval int
	Attempts int
	Correct  int
}

// Accuracy 返回正确率，没有作答时为 0。
func (s IntervalStat) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// Store 是练习历史数据库。
type Store struct {
	db   *sql.DB
	path string
}

// Open 打开或创建数据库并执行迁移。
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	// PRAGMA 按连接生效，单连接保证外键约束始终开启
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("启用外键约束失败: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debugf("[history] 数据库已打开: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			lowest_note INTEGER NOT NULL,
			highest_note INTEGER NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guesses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			note_a INTEGER NOT NULL,
			note_b INTEGER NOT NULL,
			interval INTEGER NOT NULL,
			guessed INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_session ON guesses(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_interval ON guesses(interval)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return nil
}

// Path 返回数据库文件路径。
func (s *Store) Path() string {
	return s.path
}

// StartSession 创建一次练习记录，返回会话 ID。
func (s *Store) StartSession(lowest, highest int) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, lowest_note, highest_note) VALUES (?, ?, ?)",
		id, lowest, highest,
	)
	if err != nil {
		return "", fmt.Errorf("创建练习记录失败: %w", err)
	}
	return id, nil
}

// RecordGuess 记录一次作答，interval 按 |b-a| 存储。
func (s *Store) RecordGuess(sessionID string, a, b, guessed int, correct bool) error {
	interval := b - a
	if interval < 0 {
		interval = -interval
	}
	_, err := s.db.Exec(
		`INSERT INTO guesses (session_id, note_a, note_b, interval, guessed, correct)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, a, b, interval, guessed, correct,
	)
	if err != nil {
		return fmt.Errorf("记录作答失败: %w", err)
	}
	return nil
}

// IntervalStats 按音程汇总作答情况，sessionID 为空时统计全部练习。
func (s *Store) IntervalStats(sessionID string) ([]IntervalStat, error) {
	query := `SELECT interval, COUNT(*), COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0)
		FROM guesses`
	var args []interface{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " GROUP BY interval ORDER BY interval"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询统计失败: %w", err)
	}
	defer rows.Close()

	var stats []IntervalStat
	for rows.Next() {
		var st IntervalStat
		if err := rows.Scan(&st.Interval, &st.Attempts, &st.Correct); err != nil {
			return nil, fmt.Errorf("读取统计失败: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// SessionCount 返回已记录的练习次数。
func (s *Store) SessionCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("查询练习次数失败: %w", err)
	}
	return n, nil
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SessionRecorder 把 Store 绑定到一次练习，供 trainer.Session 记录作答。
type SessionRecorder struct {
	store     *Store
	sessionID string
}

// Recorder 返回绑定到 sessionID 的记录器。
func (s *Store) Recorder(sessionID string) *SessionRecorder {
	return &SessionRecorder{store: s, sessionID: sessionID}
}

// SessionID 返回绑定的会话 ID。
func (r *SessionRecorder) SessionID() string {
	return r.sessionID
}

// RecordGuess 实现 trainer.Recorder。
func (r *SessionRecorder) RecordGuess(d trainer.Dyad, guessed int, correct bool) error {
	return r.store.RecordGuess(r.sessionID, d.A, d.B, guessed, correct)
}

package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

var (
	// ErrLocked 已有另一个采集实例持有该检查点库
	ErrLocked = errors.New("检查点库已被其他实例锁定")
	// ErrCorrupt 检查点内容无法解析,需要用户手动清理
	ErrCorrupt = errors.New("检查点内容损坏")
)

const checkpointKey = "session"

// Store 基于sqlite的检查点存储,进程本地,单写者
// 结果缓冲区是独立的只追加表,每次追加立即落盘,这是崩溃安全的底线
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建检查点目录失败: %w", err)
	}

	// 实例锁: 第二个进程对同一库的写入必须被拒绝
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取实例锁失败: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("打开检查点库失败: %w", err)
	}
	// sqlite单写者,限制为1个连接
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("检查点库连接失败: %w", err)
	}

	s := &Store{db: db, lock: lock}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	return err
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			item_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_results_session_item
			ON results(session_id, item_id)`,
		`CREATE TABLE IF NOT EXISTS seen (
			mode TEXT NOT NULL,
			item_id TEXT NOT NULL,
			PRIMARY KEY (mode, item_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("初始化检查点表失败: %w", err)
		}
	}
	return nil
}

// LoadCheckpoint 读取当前检查点,不存在时返回nil
func (s *Store) LoadCheckpoint(ctx context.Context) (*Checkpoint, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, checkpointKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取检查点失败: %w", err)
	}
	var cp Checkpoint
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		// 损坏的检查点必须暴露给用户,不能悄悄丢弃
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &cp, nil
}

// SaveCheckpoint 整体序列化后落盘,先持久化再推进游标的纪律由调用方保证
func (s *Store) SaveCheckpoint(ctx context.Context, cp *Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("序列化检查点失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		checkpointKey, string(data))
	if err != nil {
		return fmt.Errorf("写入检查点失败: %w", err)
	}
	return nil
}

// ClearSession 会话结束时清除检查点与结果缓冲区
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE key = ?`, checkpointKey); err != nil {
		return fmt.Errorf("清除检查点失败: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM results WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("清除结果缓冲区失败: %w", err)
	}
	return nil
}

// AppendResult 追加一条已接受记录,缓冲区只追加不改写
// 按(session_id, item_id)去重: 追加和游标推进是两次写入,中间崩溃后
// 恢复会重做当前条目,重复追加必须不产生第二行
func (s *Store) AppendResult(ctx context.Context, sessionID string, rec *entity.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results (session_id, mode, item_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(rec.Mode), rec.ID(), string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("追加结果失败: %w", err)
	}
	return nil
}

// Results 按追加顺序读出结果缓冲区
func (s *Store) Results(ctx context.Context, sessionID string) ([]*entity.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM results WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("读取结果缓冲区失败: %w", err)
	}
	defer rows.Close()

	var recs []*entity.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("扫描结果行失败: %w", err)
		}
		var rec entity.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历结果行失败: %w", err)
	}
	return recs, nil
}

// ResultCount 结果缓冲区长度
func (s *Store) ResultCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("统计结果缓冲区失败: %w", err)
	}
	return n, nil
}

// MarkSeen 记录跨会话已见条目(职位模式去重用)
func (s *Store) MarkSeen(ctx context.Context, mode entity.Mode, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen (mode, item_id) VALUES (?, ?)`,
		string(mode), itemID)
	if err != nil {
		return fmt.Errorf("记录已见条目失败: %w", err)
	}
	return nil
}

func (s *Store) IsSeen(ctx context.Context, mode entity.Mode, itemID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen WHERE mode = ? AND item_id = ?`,
		string(mode), itemID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("查询已见条目失败: %w", err)
	}
	return n > 0, nil
}

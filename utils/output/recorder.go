package output

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Row 一个规划周期的变道决策记录
type Row struct {
	Session    string   // 会话ID
	Step       int32    // 规划步
	T          float64  // 规划时间（秒）
	Status     string   // 周期结束时的变道状态
	PathID     string   // 变道状态对应的参考线ID
	Candidates []string // 仲裁后的候选走廊ID（按顺序）
	Chosen     string   // 本周期选中的候选走廊ID，无可行候选时为空
	Clear      bool     // 变道参考线是否全部通过安全判断
	Applied    bool     // 变道仲裁是否成功执行
}

// Recorder 变道决策记录器
// 功能：将每个规划周期的变道决策写入SQLite数据库
type Recorder struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewRecorder 打开（或创建）SQLite数据库并初始化表结构
func NewRecorder(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	stmt, err := db.Prepare(`
		INSERT INTO lane_change (session, step, t, status, path_id, candidates, chosen, clear, applied)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	log.Infof("recording lane change decisions to %s", path)
	return &Recorder{db: db, stmt: stmt}, nil
}

// Record 写入一条记录
func (r *Recorder) Record(row Row) error {
	_, err := r.stmt.Exec(
		row.Session, row.Step, row.T, row.Status, row.PathID,
		strings.Join(row.Candidates, ","), row.Chosen, row.Clear, row.Applied,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lane change record: %w", err)
	}
	return nil
}

// Rows 按步数顺序读取某个会话的全部记录
func (r *Recorder) Rows(session string) ([]Row, error) {
	rows, err := r.db.Query(`
		SELECT session, step, t, status, path_id, candidates, chosen, clear, applied
		FROM lane_change WHERE session = ? ORDER BY step, id
	`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Row, 0)
	for rows.Next() {
		var row Row
		var candidates string
		if err := rows.Scan(
			&row.Session, &row.Step, &row.T, &row.Status, &row.PathID,
			&candidates, &row.Chosen, &row.Clear, &row.Applied,
		); err != nil {
			return nil, err
		}
		if candidates != "" {
			row.Candidates = strings.Split(candidates, ",")
		} else {
			row.Candidates = []string{}
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// Close 关闭数据库
func (r *Recorder) Close() error {
	if err := r.stmt.Close(); err != nil {
		log.Warnf("failed to close statement: %v", err)
	}
	return r.db.Close()
}

package audit

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Append(e Entry) error {
	_, err := p.db.Exec(`INSERT INTO admin_audit(id, actor, action, target_id, detail, created_at) VALUES($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Actor, e.Action, e.TargetID, e.Detail, e.CreatedAt)
	return err
}

func (p *PostgresStore) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.Query(`SELECT id, actor, action, target_id, detail, created_at FROM admin_audit ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.TargetID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Close() error { return p.db.Close() }

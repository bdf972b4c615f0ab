package kv_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepo struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

// NewSQLiteRepository открывает (или создаёт) файл базы и таблицу kv_store
func NewSQLiteRepository(path string) (*SQLiteRepo, error) {
	// WAL и busy timeout - чтобы читатели не упирались в писателя
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// SQLite однописательный, держим одно соединение
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_store: %w", err)
	}

	return &SQLiteRepo{
		db:     db,
		getter: trmsql.DefaultCtxGetter,
	}, nil
}

// TxManager - менеджер транзакций над той же базой. Get/Set внутри Do идут в транзакции
func (r *SQLiteRepo) TxManager() (trm.Manager, error) {
	return manager.New(trmsql.NewDefaultFactory(r.db))
}

func (r *SQLiteRepo) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := getQuery(key, sq.Question).ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, sqlStr, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *SQLiteRepo) Set(ctx context.Context, key, value string) error {
	sqlStr, args, err := setQuery(key, value, sq.Question).ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

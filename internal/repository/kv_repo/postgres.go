package kv_repo

import (
	"context"
	"errors"
	"fmt"
	"fortune_wheel/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type pgRepo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPostgresRepository(dbc *pgxpool.Pool) repository.KVRepository {
	return &pgRepo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// EnsurePostgresSchema создаёт таблицу хранилища, если её нет
func EnsurePostgresSchema(ctx context.Context, dbc *pgxpool.Pool) error {
	if _, err := dbc.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

// Get - значение по ключу. Внутри txManager.Do запрос идёт в текущей транзакции
func (r *pgRepo) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := getQuery(key, sq.Dollar).ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

func (r *pgRepo) Set(ctx context.Context, key, value string) error {
	sqlStr, args, err := setQuery(key, value, sq.Dollar).ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

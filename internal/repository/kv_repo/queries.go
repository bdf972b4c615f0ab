package kv_repo

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	table        = "kv_store"
	colKey       = "key"
	colValue     = "value"
	colUpdatedAt = "updated_at"
)

func getQuery(key string, format sq.PlaceholderFormat) sq.SelectBuilder {
	return sq.Select(colValue).
		From(table).
		Where(sq.Eq{colKey: key}).
		PlaceholderFormat(format)
}

// setQuery - upsert, последняя запись побеждает
func setQuery(key, value string, format sq.PlaceholderFormat) sq.InsertBuilder {
	return sq.Insert(table).
		Columns(colKey, colValue, colUpdatedAt).
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " +
			colValue + " = EXCLUDED." + colValue + ", " +
			colUpdatedAt + " = EXCLUDED." + colUpdatedAt).
		PlaceholderFormat(format)
}

package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (s *Store) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (s *Store) insertStatement(t table) string {
	names := make([]string, len(t.columns))
	marks := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
		marks[i] = s.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		t.name, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// CreateRecord inserts one row and returns its generated id.
// Fields outside the table's columns are ignored; missing ones are stored as NULL.
func (s *Store) CreateRecord(ctx context.Context, tableName string, fields map[string]any) (string, error) {
	t, ok := tables[tableName]
	if !ok {
		return "", fmt.Errorf("sqlstore: unknown table %q", tableName)
	}

	args := make([]any, len(t.columns))
	for i, c := range t.columns {
		args[i] = fields[c.name]
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, s.insertStatement(t), args...).Scan(&id); err != nil {
		s.l.Errorf(ctx, "entry.repository.sqlstore.CreateRecord: table=%s: %v", t.name, err)
		return "", err
	}

	s.l.Debugf(ctx, "entry.repository.sqlstore.CreateRecord: table=%s id=%d", t.name, id)
	return strconv.FormatInt(id, 10), nil
}

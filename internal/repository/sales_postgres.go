package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/bichat-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxToolRows caps how many rows a single agent query may pull back
// into the model context.
const maxToolRows = 200

// SalesQueryExecutor runs read-only SQL issued by the analysis agent
// and renders the result as text the model can consume.
type SalesQueryExecutor interface {
	RunReadOnlyQuery(ctx context.Context, query string) (string, error)
}

var _ SalesQueryExecutor = &SalesPostgres{}

// SalesPostgres implements SalesQueryExecutor using PostgreSQL
type SalesPostgres struct {
	db *pgxpool.Pool
}

func NewSalesPostgres(db *pgxpool.Pool) *SalesPostgres {
	return &SalesPostgres{
		db: db,
	}
}

// RunReadOnlyQuery executes a model-authored SELECT and renders the
// result set as tab-separated lines, header row first. Statements that
// are not plain reads are rejected before touching the database.
func (r *SalesPostgres) RunReadOnlyQuery(ctx context.Context, query string) (string, error) {
	if err := validateReadOnly(query); err != nil {
		return "", err
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, "\t"))
	sb.WriteString("\n")

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return "", fmt.Errorf("read row: %w", err)
		}

		cells := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteString("\n")

		count++
		if count >= maxToolRows {
			sb.WriteString(fmt.Sprintf("... (truncated at %d rows)\n", maxToolRows))
			break
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate rows: %w", err)
	}

	if count == 0 {
		return "(no rows)", nil
	}

	return sb.String(), nil
}

// forbiddenKeywords blocks statements that mutate data or schema even
// when they start with an allowed prefix (CTE smuggling, stacked
// statements).
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"truncate", "grant", "revoke", "copy", "vacuum",
}

func validateReadOnly(query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return fmt.Errorf("%w: empty query", entity.ErrInvalidParameter)
	}

	if !strings.HasPrefix(normalized, "select") && !strings.HasPrefix(normalized, "with") {
		return fmt.Errorf("%w: only SELECT queries are allowed", entity.ErrInvalidParameter)
	}

	for _, kw := range forbiddenKeywords {
		if containsKeyword(normalized, kw) {
			return fmt.Errorf("%w: statement contains forbidden keyword %q", entity.ErrInvalidParameter, kw)
		}
	}

	return nil
}

// containsKeyword matches kw as a whole word so that column names like
// "created_at" do not trip the "create" check.
func containsKeyword(s, kw string) bool {
	idx := 0
	for {
		pos := strings.Index(s[idx:], kw)
		if pos < 0 {
			return false
		}
		pos += idx

		beforeOK := pos == 0 || !isWordChar(s[pos-1])
		afterPos := pos + len(kw)
		afterOK := afterPos >= len(s) || !isWordChar(s[afterPos])
		if beforeOK && afterOK {
			return true
		}

		idx = pos + len(kw)
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

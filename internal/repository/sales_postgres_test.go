package repository

import (
	"errors"
	"testing"

	"github.com/futig/bichat-backend/internal/entity"
)

func TestValidateReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"plain select", "SELECT * FROM products", false},
		{"lowercase select", "select name, sale_price from products", false},
		{"cte", "WITH revenue AS (SELECT 1) SELECT * FROM revenue", false},
		{"leading whitespace", "   SELECT 1", false},
		{"column named created_at", "SELECT created_at FROM sales_log", false},
		{"empty", "", true},
		{"insert", "INSERT INTO products (name) VALUES ('x')", true},
		{"update", "UPDATE products SET sale_price = 0", true},
		{"delete", "DELETE FROM products", true},
		{"drop", "DROP TABLE products", true},
		{"stacked statements", "SELECT 1; DROP TABLE products", true},
		{"cte smuggling", "WITH x AS (DELETE FROM products RETURNING *) SELECT * FROM x", true},
		{"explain", "EXPLAIN SELECT 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReadOnly(tt.query)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for query %q", tt.query)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for query %q: %v", tt.query, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, entity.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		s, kw string
		want  bool
	}{
		{"select * from t where x = 'delete'", "delete", true},
		{"select deleted_flag from t", "delete", false},
		{"select created_at from t", "create", false},
		{"create table t (id int)", "create", true},
		{"select 1", "drop", false},
	}

	for _, tt := range tests {
		if got := containsKeyword(tt.s, tt.kw); got != tt.want {
			t.Errorf("containsKeyword(%q, %q) = %v, want %v", tt.s, tt.kw, got, tt.want)
		}
	}
}

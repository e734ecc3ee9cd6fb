package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestPostgresMigrateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "url is kept",
			in:   "postgres://u:p@db:5432/chat?sslmode=require",
			want: "postgres://u:p@db:5432/chat?sslmode=require",
		},
		{
			name: "keyword dsn",
			in:   "host=db port=6543 user=u password=p dbname=chat sslmode=disable",
			want: "postgres://u:p@db:6543/chat?sslmode=disable",
		},
		{
			name: "keyword dsn defaults",
			in:   "user=u password=p dbname=chat",
			want: "postgres://u:p@localhost:5432/chat?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postgresMigrateURL(tt.in); got != tt.want {
				t.Errorf("postgresMigrateURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSQLiteMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	if err := RunSQLiteMigrations(path); err != nil {
		t.Fatalf("RunSQLiteMigrations: %v", err)
	}
	// Segunda execução não deve falhar
	if err := RunSQLiteMigrations(path); err != nil {
		t.Fatalf("RunSQLiteMigrations (again): %v", err)
	}

	db, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		t.Fatalf("query conversations: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

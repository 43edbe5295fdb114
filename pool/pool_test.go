package pool

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestOpen(t *testing.T) {
	p, err := Open(context.Background(), "sqlite3", ":memory:", &Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer p.Close()

	var pl Pool = p
	var n int
	if err := pl.QueryRowContext(context.Background(), "SELECT 1").Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d, want 1", n)
	}
	if got := p.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "nosuchdriver", "", nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

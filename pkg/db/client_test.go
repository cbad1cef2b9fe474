package db

import (
	"context"
	"errors"
	"testing"

	"github.com/msotelo-dev/atelier-backend/pkg/config"
	"gorm.io/gorm"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error when DSN is empty")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	defer client.Close()

	if err := client.DB().Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO widgets (name) VALUES ('a')").Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Raw("SELECT COUNT(*) FROM widgets").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
	err := errors.New(`duplicate key value violates unique constraint "products_sku_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic duplicate match")
	}
	if !IsUniqueViolation(err, "products_sku_key") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("unexpected match for different constraint")
	}
}

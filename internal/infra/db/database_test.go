package db

import (
	"context"
	"testing"

	"github.com/installment-tracker/backend/config"
)

func TestNewConnection(t *testing.T) {
	t.Run("sqlite in memory migrates", func(t *testing.T) {
		d, err := NewConnection(&config.DatabaseConfig{
			Driver: DriverSQLite,
			URL:    "file::memory:",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer d.Close()

		if err := d.Migrate(); err != nil {
			t.Fatalf("expected migration to succeed, got %v", err)
		}
		if !d.DB().Migrator().HasTable("purchases") {
			t.Error("expected purchases table to exist")
		}
		if err := d.Ping(context.Background()); err != nil {
			t.Errorf("expected ping to succeed, got %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewConnection(&config.DatabaseConfig{Driver: "mysql"})
		if err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})
}

package shared

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewGormDB(t *testing.T) {
	t.Run("sqlite shares the database/sql pool", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		gdb, err := NewGormDB(DatabaseConfig{Driver: DriverSQLite}, db, NewLogger(&bytes.Buffer{}))
		if err != nil {
			t.Fatalf("NewGormDB() error = %v", err)
		}

		var count int64
		if err := gdb.Table("schema_migrations").Count(&count).Error; err != nil {
			t.Fatalf("gorm query failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected gorm to see 2 migrations, got %d", count)
		}
	})

	t.Run("sqlite requires a connection", func(t *testing.T) {
		if _, err := NewGormDB(DatabaseConfig{Driver: DriverSQLite}, nil, nil); !errors.Is(err, ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		if _, err := NewGormDB(DatabaseConfig{Driver: "oracle"}, nil, nil); !errors.Is(err, ErrUnsupportedDriver) {
			t.Errorf("expected ErrUnsupportedDriver, got %v", err)
		}
	})
}

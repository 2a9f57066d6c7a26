package uow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/ports"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "uow.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	if err := db.AutoMigrate(&model.Position{}); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	u := NewUnitOfWork(db)
	boom := errors.New("boom")
	err = u.WithTx(context.Background(), func(ctx context.Context) error {
		tx, ok := ports.TxFromContext(ctx).(*gorm.DB)
		if !ok {
			t.Fatalf("tx in context = %T", ports.TxFromContext(ctx))
		}
		if err := tx.Create(&model.Position{Name: "Driver"}).Error; err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return u.WithTx(ctx, func(inner context.Context) error {
			if ports.TxFromContext(inner) != ports.TxFromContext(ctx) {
				t.Fatalf("nested WithTx opened a new transaction")
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	var count int64
	if err := db.Model(&model.Position{}).Count(&count).Error; err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("positions = %d, want 0 after rollback", count)
	}
}

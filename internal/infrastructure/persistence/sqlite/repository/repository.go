package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shiftwise/internal/ports"
)

// sessionFrom resolves the gorm handle for a call: the transaction stored in
// context when a unit of work is active, the repository's own handle
// otherwise.
func sessionFrom(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

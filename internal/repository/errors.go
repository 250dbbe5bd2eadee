package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Low-level outcomes. The service layer maps them to the ledger taxonomy.
var (
	ErrNoRows          = errors.New("repository: no rows matched")
	ErrConditionFailed = errors.New("repository: update condition not met")
	ErrDuplicate       = errors.New("repository: unique constraint violated")
	ErrForeignKey      = errors.New("repository: foreign key violated")
)

// classify folds driver-specific constraint failures into the sentinels
// above. Dialectors that implement gorm's error translation already return
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated; the message checks
// cover the ones that do not.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNoRows
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "Duplicate entry"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "a foreign key constraint fails"):
		return ErrForeignKey
	}
	return err
}

func orRoot(root, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return root
	}
	return tx
}

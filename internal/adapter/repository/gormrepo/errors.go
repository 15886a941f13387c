package gormrepo

import (
	"errors"

	"gorm.io/gorm"
)

// translate maps storage errors onto domain errors at the repository boundary.
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// supportsRowLocks is false for SQLite, which locks the whole database instead.
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}

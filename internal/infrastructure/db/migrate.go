package db

import (
	"loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{&user.User{}, &loan.Loan{}, &payment.Payment{}}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

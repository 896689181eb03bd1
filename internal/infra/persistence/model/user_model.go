package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
// The address is stored inline as address_* columns.
type UserModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     sql.NullString `gorm:"type:varchar(100);uniqueIndex:users_username_key"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	FullName     string         `gorm:"type:varchar(200);not null"`
	BirthDate    time.Time      `gorm:"type:date;not null"`
	Gender       string         `gorm:"type:varchar(10);not null"`
	NationalID   string         `gorm:"column:national_id;type:varchar(20);uniqueIndex:users_national_id_key;not null"`
	Phone        string         `gorm:"type:varchar(30);not null"`
	ProfileImage string         `gorm:"type:varchar(500)"`
	Role         string         `gorm:"type:varchar(20);not null"`
	Address      AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AddressColumns is embedded into UserModel.
type AddressColumns struct {
	PostalCode string `gorm:"type:varchar(8)"`
	Street     string `gorm:"type:varchar(255)"`
	Number     string `gorm:"type:varchar(20)"`
	District   string `gorm:"type:varchar(120)"`
	City       string `gorm:"type:varchar(120)"`
	State      string `gorm:"type:varchar(2)"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

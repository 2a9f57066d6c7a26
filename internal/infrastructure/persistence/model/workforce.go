package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Position struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (Position) TableName() string {
	return "positions"
}

type Role struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (Role) TableName() string {
	return "roles"
}

// User is a login account. A soft-deleted user is a deactivated account.
type User struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string         `gorm:"column:name;type:text;not null"`
	Email     string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Roles []Role `gorm:"many2many:user_roles"`
}

func (User) TableName() string {
	return "users"
}

// Employee is a workforce profile. A soft-deleted employee is archived.
type Employee struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        *uint64        `gorm:"column:user_id;index"`
	PositionID    *uint64        `gorm:"column:position_id;index"`
	FirstName     string         `gorm:"column:first_name;type:text;not null"`
	MiddleName    string         `gorm:"column:middle_name;type:text;not null;default:''"`
	LastName      string         `gorm:"column:last_name;type:text;not null"`
	Email         string         `gorm:"column:email;type:text;not null;default:''"`
	ContactNumber string         `gorm:"column:contact_number;type:text;not null;default:''"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Position *Position `gorm:"foreignKey:PositionID"`
	User     *User     `gorm:"foreignKey:UserID"`
}

func (Employee) TableName() string {
	return "employees"
}

type Truck struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	PlateNumber  string          `gorm:"column:plate_number;type:text;not null;uniqueIndex"`
	Model        string          `gorm:"column:model;type:text;not null;default:''"`
	CapacityTons decimal.Decimal `gorm:"column:capacity_tons;type:decimal(10,3);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;not null"`
	DeletedAt    gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Truck) TableName() string {
	return "trucks"
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Form4 and Form3 form the containment chain Form3 -> Form4 -> JobOrder.
type Form4 struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	JobOrderID uint64    `gorm:"column:job_order_id;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`

	JobOrder *JobOrder `gorm:"foreignKey:JobOrderID"`
}

func (Form4) TableName() string {
	return "form4s"
}

type Form3 struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Form4ID   uint64    `gorm:"column:form4_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`

	Form4 *Form4 `gorm:"foreignKey:Form4ID"`
}

func (Form3) TableName() string {
	return "form3s"
}

type HaulingRecord struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Form3ID    uint64          `gorm:"column:form3_id;not null;index"`
	TruckID    *uint64         `gorm:"column:truck_id;index"`
	Date       string          `gorm:"column:date;type:varchar(10);not null;index"`
	Status     string          `gorm:"column:status;type:text;not null;index"`
	WeightTons decimal.Decimal `gorm:"column:weight_tons;type:decimal(10,3);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;not null"`

	Form3 *Form3 `gorm:"foreignKey:Form3ID"`
}

func (HaulingRecord) TableName() string {
	return "hauling_records"
}

type Incident struct {
	ID              uint64            `gorm:"column:id;primaryKey;autoIncrement"`
	HaulingRecordID uint64            `gorm:"column:hauling_record_id;not null;index"`
	JobOrderID      uint64            `gorm:"column:job_order_id;not null;index"`
	Subject         string            `gorm:"column:subject;type:text;not null"`
	Location        string            `gorm:"column:location;type:text;not null"`
	InfractionType  string            `gorm:"column:infraction_type;type:text;not null"`
	OccurredAt      time.Time         `gorm:"column:occurred_at;not null"`
	Description     string            `gorm:"column:description;type:text;not null"`
	Status          string            `gorm:"column:status;type:text;not null;index"`
	IsRead          bool              `gorm:"column:is_read;not null;default:false"`
	Context         datatypes.JSONMap `gorm:"column:context"`
	CreatedAt       time.Time         `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;not null"`
}

func (Incident) TableName() string {
	return "incidents"
}

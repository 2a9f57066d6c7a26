package model

import (
	"time"

	"gorm.io/gorm"
)

type JobOrder struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	ServiceType string         `gorm:"column:service_type;type:text;not null;index"`
	Status      string         `gorm:"column:status;type:text;not null;index"`
	Description string         `gorm:"column:description;type:text;not null"`
	Location    string         `gorm:"column:location;type:text;not null;default:''"`
	CreatedBy   uint64         `gorm:"column:created_by;not null;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Creator *Employee `gorm:"foreignKey:CreatedBy"`
}

func (JobOrder) TableName() string {
	return "job_orders"
}

type JobOrderCorrection struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	JobOrderID uint64    `gorm:"column:job_order_id;not null;index"`
	Status     string    `gorm:"column:status;type:text;not null;index"`
	Reason     string    `gorm:"column:reason;type:text;not null"`
	CreatedBy  uint64    `gorm:"column:created_by;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`

	Creator  *Employee `gorm:"foreignKey:CreatedBy"`
	JobOrder *JobOrder `gorm:"foreignKey:JobOrderID"`
}

func (JobOrderCorrection) TableName() string {
	return "job_order_corrections"
}

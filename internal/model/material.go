package model

import "time"

// Material is a priced material available to one tenant. The material
// name is unique within its tenant (partial unique index, provisioned
// per tenant).
type Material struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	MaterialName string    `json:"materialName" gorm:"column:material_name;type:varchar(100);not null;index"`
	Unit         string    `json:"unit" gorm:"type:varchar(20);not null"`
	Price        float64   `json:"price" gorm:"not null"`
	Site         string    `json:"site" gorm:"type:varchar(100);not null;index:idx_materials_tenant"`
	Company      string    `json:"company" gorm:"type:varchar(100);not null;index:idx_materials_tenant"`
	CreatedBy    string    `json:"createdBy,omitempty" gorm:"column:created_by;type:varchar(100)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

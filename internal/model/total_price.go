package model

import "time"

// TotalPrice is an aggregated price row saved from the reporting page,
// one per material and date range within a tenant.
type TotalPrice struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	MaterialName  string    `json:"materialName" gorm:"column:material_name;type:varchar(100);not null"`
	TotalQuantity float64   `json:"totalQuantity" gorm:"column:total_quantity;not null"`
	TotalPrice    float64   `json:"totalPrice" gorm:"column:total_price;not null"`
	StartDate     time.Time `json:"startDate" gorm:"column:start_date;not null"`
	EndDate       time.Time `json:"endDate" gorm:"column:end_date;not null"`
	Site          string    `json:"site" gorm:"type:varchar(100);not null;index:idx_total_prices_tenant"`
	Company       string    `json:"company" gorm:"type:varchar(100);not null;index:idx_total_prices_tenant"`
	CreatedBy     string    `json:"createdBy,omitempty" gorm:"column:created_by;type:varchar(100)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (TotalPrice) TableName() string {
	return "total_prices"
}

package model

import "time"

// DailyReport records material usage for one day at one location.
// Reports carry no uniqueness invariant; many rows may share a date.
type DailyReport struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Date         time.Time `json:"date" gorm:"not null;index"`
	MaterialName string    `json:"materialName" gorm:"column:material_name;type:varchar(100);not null"`
	Quantity     float64   `json:"quantity" gorm:"not null"`
	Location     string    `json:"location" gorm:"type:varchar(200)"`
	PanelName    string    `json:"panelName" gorm:"column:panel_name;type:varchar(100)"`
	Circuit      string    `json:"circuit" gorm:"type:varchar(100)"`
	Notes        string    `json:"notes" gorm:"type:text"`
	Site         string    `json:"site" gorm:"type:varchar(100);not null;index:idx_daily_reports_tenant"`
	Company      string    `json:"company" gorm:"type:varchar(100);not null;index:idx_daily_reports_tenant"`
	CreatedBy    string    `json:"createdBy,omitempty" gorm:"column:created_by;type:varchar(100)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}

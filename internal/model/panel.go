package model

import "time"

// Panel represents one panel/circuit row. Site and Company are the
// owning tenant's discriminator fields; they are always stamped by the
// tenant-scoped accessor, never taken from request input. Uniqueness of
// (site, company, panel_name, circuit) is enforced by a per-tenant
// partial unique index created during tenant provisioning.
type Panel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PanelName string    `json:"panelName" gorm:"column:panel_name;type:varchar(100);not null;index"`
	Circuit   string    `json:"circuit" gorm:"type:varchar(100);not null"`
	Site      string    `json:"site" gorm:"type:varchar(100);not null;index:idx_panels_tenant"`
	Company   string    `json:"company" gorm:"type:varchar(100);not null;index:idx_panels_tenant"`
	CreatedBy string    `json:"createdBy,omitempty" gorm:"column:created_by;type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Panel) TableName() string {
	return "panels"
}

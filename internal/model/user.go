package model

import "time"

// Roles an account may hold. The role is fixed at creation; no
// operation moves an account between the tenant-scoped and global
// uniqueness regimes.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// User is a global account record. Site and Company are set only for
// role "user" and identify the account's tenant; manager and admin
// accounts carry no tenant scope. Two partial unique indexes back the
// dual uniqueness regime:
//
//	(username, site, company) where role = 'user'
//	(username)                where role in ('manager', 'admin')
//
// Both are created at bootstrap, see database.Initialize.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;index"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(100)"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Site      string    `json:"site,omitempty" gorm:"type:varchar(100)"`
	Company   string    `json:"company,omitempty" gorm:"type:varchar(100)"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy string    `json:"createdBy,omitempty" gorm:"column:created_by;type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsTenantScoped reports whether the account belongs to the
// tenant-scoped uniqueness regime.
func (u *User) IsTenantScoped() bool {
	return u.Role == RoleUser
}

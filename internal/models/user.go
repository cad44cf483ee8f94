package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer  = "customer"
	RoleShopOwner = "shop_owner"
	RoleStaff     = "staff"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"default:'customer'"`
	Status       string `gorm:"default:'active'"`
	IsBlocked    bool   `gorm:"default:false"`
	LastLoginAt  time.Time
	LastLoginIP  string
	TokenVersion int `gorm:"default:1"`
}

// IsStaffLevel reports whether the user may access the admin portal.
// Money decisions (refund approval, payouts, commission) additionally
// require RoleAdmin.
func (u *User) IsStaffLevel() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

package models

import (
	"time"
)

const (
	RoleExamAdmin   = "exam_admin"
	RoleInvigilator = "invigilator"
	RoleStudent     = "student"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"not null;default:student;index" json:"role"` // exam_admin, invigilator, student
	Phone     string    `json:"phone"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the roles SeatSync knows about.
func ValidRole(role string) bool {
	switch role {
	case RoleExamAdmin, RoleInvigilator, RoleStudent:
		return true
	}
	return false
}

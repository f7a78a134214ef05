package models

import "time"

type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Programs  []Program `gorm:"foreignKey:DepartmentID" json:"programs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Program struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	DepartmentID uint       `gorm:"not null;uniqueIndex:idx_program_department_code" json:"department_id"`
	Department   Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Code         string     `gorm:"not null;uniqueIndex:idx_program_department_code" json:"code"`
	Name         string     `gorm:"not null" json:"name"`
	Semesters    []Semester `gorm:"foreignKey:ProgramID" json:"semesters,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Semester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"not null;uniqueIndex:idx_semester_program_number" json:"program_id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_semester_program_number" json:"number"`
	Subjects  []Subject `gorm:"foreignKey:SemesterID" json:"subjects,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Subject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SemesterID uint      `gorm:"not null;index" json:"semester_id"`
	Semester   Semester  `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Code       string    `gorm:"uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"not null" json:"name"`
	Credits    int       `gorm:"default:0" json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Student links a student account to where it sits in the organization.
type Student struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RollNumber   string     `gorm:"uniqueIndex;not null" json:"roll_number"`
	DepartmentID uint       `gorm:"not null;index" json:"department_id"`
	Department   Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	ProgramID    uint       `gorm:"not null;index" json:"program_id"`
	Program      Program    `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	SemesterID   uint       `gorm:"not null;index" json:"semester_id"`
	Semester     Semester   `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

package dtos

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is used by exam admins to add staff accounts. Student
// accounts normally arrive through the student import.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=150"`
	Role     string `json:"role" binding:"required,oneof=exam_admin invigilator student"`
	Phone    string `json:"phone" binding:"max=20"`
}

type DepartmentRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=150"`
}

type ProgramRequest struct {
	DepartmentID uint   `json:"department_id" binding:"required"`
	Code         string `json:"code" binding:"required,max=20"`
	Name         string `json:"name" binding:"required,max=150"`
}

type SemesterRequest struct {
	ProgramID uint `json:"program_id" binding:"required"`
	Number    int  `json:"number" binding:"required,min=1,max=12"`
}

type SubjectRequest struct {
	SemesterID uint   `json:"semester_id" binding:"required"`
	Code       string `json:"code" binding:"required,max=20"`
	Name       string `json:"name" binding:"required,max=150"`
	Credits    int    `json:"credits" binding:"min=0,max=40"`
}

type ExamRequest struct {
	SubjectID uint      `json:"subject_id" binding:"required"`
	Title     string    `json:"title" binding:"required,max=200"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
}

// RegistrationRequest registers students for an exam by roll number.
type RegistrationRequest struct {
	RollNumbers []string `json:"roll_numbers" binding:"required,min=1,max=5000"`
}

type InvigilatorRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

type AttendanceEntry struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

type AttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

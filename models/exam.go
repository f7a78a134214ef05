package models

import "time"

const (
	ExamStatusScheduled = "scheduled"
	ExamStatusOngoing   = "ongoing"
	ExamStatusCompleted = "completed"
	ExamStatusCancelled = "cancelled"

	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

type Exam struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"not null;index" json:"subject_id"`
	Subject   Subject   `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	StartsAt  time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	Status    string    `gorm:"default:scheduled" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExamRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"not null;uniqueIndex:idx_registration_exam_student" json:"exam_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_registration_exam_student" json:"student_id"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SeatAllocation places a registered student on a seat for one exam.
type SeatAllocation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"not null;uniqueIndex:idx_allocation_exam_seat;uniqueIndex:idx_allocation_exam_student" json:"exam_id"`
	SeatID    uint      `gorm:"not null;uniqueIndex:idx_allocation_exam_seat" json:"seat_id"`
	Seat      Seat      `gorm:"foreignKey:SeatID" json:"seat,omitempty"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_allocation_exam_student" json:"student_id"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InvigilatorAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"not null;uniqueIndex:idx_invigilation_exam_room_user" json:"exam_id"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_invigilation_exam_room_user" json:"room_id"`
	Room      Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_invigilation_exam_room_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Attendance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExamID     uint      `gorm:"not null;uniqueIndex:idx_attendance_exam_student" json:"exam_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_attendance_exam_student" json:"student_id"`
	Status     string    `gorm:"not null" json:"status"` // present, absent
	MarkedByID uint      `gorm:"not null" json:"marked_by_id"`
	MarkedAt   time.Time `json:"marked_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

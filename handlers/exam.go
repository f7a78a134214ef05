package handlers

import (
	"net/http"
	"strings"
	"time"

	"seatsync-backend/dtos"
	"seatsync-backend/middleware"
	"seatsync-backend/models"
	"seatsync-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamHandler struct {
	DB *gorm.DB
}

func (h *ExamHandler) loadExam(c *gin.Context) (models.Exam, bool) {
	var exam models.Exam
	id, ok := pathID(c, "id")
	if !ok {
		return exam, false
	}
	if err := h.DB.Preload("Subject").First(&exam, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
		return exam, false
	}
	return exam, true
}

func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req dtos.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.DB.First(&models.Subject{}, req.SubjectID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject not found"})
		return
	}

	exam := models.Exam{
		SubjectID: req.SubjectID,
		Title:     strings.TrimSpace(req.Title),
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Status:    models.ExamStatusScheduled,
	}
	if err := h.DB.Create(&exam).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exam"})
		return
	}
	c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) GetExams(c *gin.Context) {
	subjectID, filtered, ok := queryID(c, "subject_id")
	if !ok {
		return
	}

	query := h.DB.Preload("Subject").Order("starts_at")
	if filtered {
		query = query.Where("subject_id = ?", subjectID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var exams []models.Exam
	if err := query.Find(&exams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exams"})
		return
	}
	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var registered int64
	h.DB.Model(&models.ExamRegistration{}).Where("exam_id = ?", exam.ID).Count(&registered)

	c.JSON(http.StatusOK, gin.H{"exam": exam, "registered_count": registered})
}

// RegisterStudents registers students by roll number. Roll numbers that are
// already registered are left alone; unknown ones are reported back.
func (h *ExamHandler) RegisterStudents(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var req dtos.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	rolls := make([]string, 0, len(req.RollNumbers))
	seen := make(map[string]bool, len(req.RollNumbers))
	for _, r := range req.RollNumbers {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		rolls = append(rolls, r)
	}

	var students []models.Student
	if err := h.DB.Where("roll_number IN ?", rolls).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up students"})
		return
	}

	found := make(map[string]bool, len(students))
	regs := make([]models.ExamRegistration, 0, len(students))
	for _, s := range students {
		found[s.RollNumber] = true
		regs = append(regs, models.ExamRegistration{ExamID: exam.ID, StudentID: s.ID})
	}
	unknown := []string{}
	for _, r := range rolls {
		if !found[r] {
			unknown = append(unknown, r)
		}
	}

	var registered int64
	if len(regs) > 0 {
		result := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&regs)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register students"})
			return
		}
		registered = result.RowsAffected
	}

	c.JSON(http.StatusOK, gin.H{
		"registered":         registered,
		"already_registered": int64(len(regs)) - registered,
		"unknown":            unknown,
	})
}

func (h *ExamHandler) GetRegistrations(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var regs []models.ExamRegistration
	if err := h.DB.Preload("Student.User").Where("exam_id = ?", exam.ID).Order("id").Find(&regs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations"})
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (h *ExamHandler) AssignInvigilator(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var req dtos.InvigilatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.DB.First(&models.Room{}, req.RoomID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room not found"})
		return
	}
	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleInvigilator && user.Role != models.RoleExamAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only staff can invigilate"})
		return
	}

	assignment := models.InvigilatorAssignment{ExamID: exam.ID, RoomID: req.RoomID, UserID: req.UserID}
	if err := h.DB.Create(&assignment).Error; err != nil {
		writeCreateError(c, err, "Invigilator already assigned to this room", "Failed to assign invigilator")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *ExamHandler) GetInvigilators(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var assignments []models.InvigilatorAssignment
	if err := h.DB.Preload("Room").Preload("User").Where("exam_id = ?", exam.ID).Order("room_id").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invigilators"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *ExamHandler) GetSeatAllocations(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	var allocations []models.SeatAllocation
	if err := h.DB.Preload("Seat").Preload("Student.User").Where("exam_id = ?", exam.ID).Order("seat_id").Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch seat allocations"})
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// MarkAttendance records present/absent for registered students. Marking a
// student twice overwrites the earlier mark. Invigilators may only mark exams
// they are assigned to.
func (h *ExamHandler) MarkAttendance(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	role, _ := c.Get("user_role")

	if exam.Status == models.ExamStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exam has been cancelled"})
		return
	}

	if role == models.RoleInvigilator {
		var assigned int64
		h.DB.Model(&models.InvigilatorAssignment{}).Where("exam_id = ? AND user_id = ?", exam.ID, userID).Count(&assigned)
		if assigned == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this exam"})
			return
		}
	}

	var req dtos.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// The last entry for a student wins.
	latest := make(map[uint]string, len(req.Entries))
	ids := make([]uint, 0, len(req.Entries))
	for _, e := range req.Entries {
		if _, dup := latest[e.StudentID]; !dup {
			ids = append(ids, e.StudentID)
		}
		latest[e.StudentID] = e.Status
	}
	var registered []uint
	if err := h.DB.Model(&models.ExamRegistration{}).Where("exam_id = ? AND student_id IN ?", exam.ID, ids).Pluck("student_id", &registered).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check registrations"})
		return
	}
	isRegistered := make(map[uint]bool, len(registered))
	for _, id := range registered {
		isRegistered[id] = true
	}
	notRegistered := []uint{}
	for _, id := range ids {
		if !isRegistered[id] {
			notRegistered = append(notRegistered, id)
		}
	}
	if len(notRegistered) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Some students are not registered for this exam",
			"not_registered": notRegistered,
		})
		return
	}

	now := time.Now()
	records := make([]models.Attendance, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.Attendance{
			ExamID:     exam.ID,
			StudentID:  id,
			Status:     latest[id],
			MarkedByID: userID,
			MarkedAt:   now,
		})
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "exam_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by_id", "marked_at", "updated_at"}),
	}).Create(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": len(records)})
}

package handlers

import (
	"net/http"
	"strings"

	"seatsync-backend/dtos"
	"seatsync-backend/models"
	"seatsync-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrganizationHandler manages departments, programs, semesters and subjects.
type OrganizationHandler struct {
	DB *gorm.DB
}

func (h *OrganizationHandler) GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.DB.Preload("Programs").Order("code").Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var req dtos.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	dept := models.Department{Code: strings.ToUpper(strings.TrimSpace(req.Code)), Name: strings.TrimSpace(req.Name)}
	if err := h.DB.Create(&dept).Error; err != nil {
		writeCreateError(c, err, "Department code already exists", "Failed to create department")
		return
	}
	c.JSON(http.StatusCreated, dept)
}

func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var programCount int64
	if err := h.DB.Model(&models.Program{}).Where("department_id = ?", id).Count(&programCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check department dependencies"})
		return
	}
	if programCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Cannot delete department with programs",
			"message":       "Please delete or move its programs first",
			"program_count": programCount,
		})
		return
	}

	result := h.DB.Delete(&models.Department{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}

func (h *OrganizationHandler) GetPrograms(c *gin.Context) {
	deptID, filtered, ok := queryID(c, "department_id")
	if !ok {
		return
	}

	query := h.DB.Preload("Semesters").Order("department_id, code")
	if filtered {
		query = query.Where("department_id = ?", deptID)
	}

	var programs []models.Program
	if err := query.Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *OrganizationHandler) CreateProgram(c *gin.Context) {
	var req dtos.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.DB.First(&models.Department{}, req.DepartmentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department not found"})
		return
	}

	program := models.Program{
		DepartmentID: req.DepartmentID,
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:         strings.TrimSpace(req.Name),
	}
	if err := h.DB.Create(&program).Error; err != nil {
		writeCreateError(c, err, "Program code already exists in this department", "Failed to create program")
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *OrganizationHandler) GetSemesters(c *gin.Context) {
	programID, filtered, ok := queryID(c, "program_id")
	if !ok {
		return
	}

	query := h.DB.Preload("Subjects").Order("program_id, number")
	if filtered {
		query = query.Where("program_id = ?", programID)
	}

	var semesters []models.Semester
	if err := query.Find(&semesters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch semesters"})
		return
	}
	c.JSON(http.StatusOK, semesters)
}

func (h *OrganizationHandler) CreateSemester(c *gin.Context) {
	var req dtos.SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.DB.First(&models.Program{}, req.ProgramID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
		return
	}

	semester := models.Semester{ProgramID: req.ProgramID, Number: req.Number}
	if err := h.DB.Create(&semester).Error; err != nil {
		writeCreateError(c, err, "Semester already exists for this program", "Failed to create semester")
		return
	}
	c.JSON(http.StatusCreated, semester)
}

func (h *OrganizationHandler) GetSubjects(c *gin.Context) {
	semesterID, filtered, ok := queryID(c, "semester_id")
	if !ok {
		return
	}

	query := h.DB.Order("code")
	if filtered {
		query = query.Where("semester_id = ?", semesterID)
	}

	var subjects []models.Subject
	if err := query.Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *OrganizationHandler) CreateSubject(c *gin.Context) {
	var req dtos.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.DB.First(&models.Semester{}, req.SemesterID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Semester not found"})
		return
	}

	subject := models.Subject{
		SemesterID: req.SemesterID,
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:       strings.TrimSpace(req.Name),
		Credits:    req.Credits,
	}
	if err := h.DB.Create(&subject).Error; err != nil {
		writeCreateError(c, err, "Subject code already exists", "Failed to create subject")
		return
	}
	c.JSON(http.StatusCreated, subject)
}

package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"seatsync-backend/importer"
	"seatsync-backend/middleware"
	"seatsync-backend/models"
	"seatsync-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// multipartOverhead is the slack allowed on top of the file limit for the
// multipart envelope and the other form fields.
const multipartOverhead = 1 << 20

type ImportHandler struct {
	DB       *gorm.DB
	Importer *importer.Importer
	MaxBytes int64
}

func (h *ImportHandler) maxBytes() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return utils.DefaultMaxImportSize
}

func (h *ImportHandler) ImportStructure(c *gin.Context) {
	h.runImport(c, importer.KindStructure)
}

func (h *ImportHandler) ImportStudents(c *gin.Context) {
	h.runImport(c, importer.KindStudents)
}

func (h *ImportHandler) runImport(c *gin.Context, kind importer.Kind) {
	limit := h.maxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Upload too large", "message": "file exceeds the maximum import size"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "message": "attach the import file as form field 'file'"})
		return
	}
	if err := utils.ValidateImportUpload(fileHeader, limit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "message": err.Error()})
		return
	}

	dryRun := false
	if raw := c.DefaultPostForm("dry_run", c.Query("dry_run")); raw != "" {
		dryRun, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dry_run", "message": "dry_run must be true or false"})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	if int64(len(data)) > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload too large", "message": "file exceeds the maximum import size"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	report, err := h.Importer.Import(c.Request.Context(), importer.Request{
		Kind:     kind,
		FileName: fileHeader.Filename,
		Data:     data,
		DryRun:   dryRun,
		UserID:   userID,
	})
	if err != nil {
		writeImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func writeImportError(c *gin.Context, err error) {
	var parseErr *importer.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read import file", "message": parseErr.Error()})
		return
	}

	var importErr *importer.ImportError
	if errors.As(err, &importErr) && importErr.Conflict() {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Import conflicted with a concurrent change",
			"message": "No rows were saved. Please retry the import.",
		})
		return
	}

	log.Printf("Import request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed", "message": "No rows were saved."})
}

func (h *ImportHandler) GetImportHistory(c *gin.Context) {
	query := h.DB.Order("created_at DESC").Limit(50)
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var logs []models.ImportLog
	if err := query.Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch import history"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

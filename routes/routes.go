package routes

import (
	"seatsync-backend/config"
	"seatsync-backend/handlers"
	"seatsync-backend/importer"
	"seatsync-backend/middleware"
	"seatsync-backend/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, loginLimiter *middleware.RateLimiter) {
	authHandler := &handlers.AuthHandler{DB: db}
	orgHandler := &handlers.OrganizationHandler{DB: db}
	infraHandler := &handlers.InfrastructureHandler{DB: db}
	examHandler := &handlers.ExamHandler{DB: db}
	importHandler := &handlers.ImportHandler{
		DB:       db,
		Importer: importer.New(storage.NewGormStore(db)),
		MaxBytes: cfg.MaxImportBytes,
	}

	api := r.Group("/api")
	api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Accounts
		admin.POST("/users", authHandler.CreateUser)
		admin.GET("/users", authHandler.ListUsers)

		// Organization
		admin.GET("/departments", orgHandler.GetDepartments)
		admin.POST("/departments", orgHandler.CreateDepartment)
		admin.DELETE("/departments/:id", orgHandler.DeleteDepartment)
		admin.GET("/programs", orgHandler.GetPrograms)
		admin.POST("/programs", orgHandler.CreateProgram)
		admin.GET("/semesters", orgHandler.GetSemesters)
		admin.POST("/semesters", orgHandler.CreateSemester)
		admin.GET("/subjects", orgHandler.GetSubjects)
		admin.POST("/subjects", orgHandler.CreateSubject)

		// Infrastructure
		admin.GET("/blocks", infraHandler.GetBlocks)
		admin.DELETE("/blocks/:id", infraHandler.DeleteBlock)
		admin.GET("/rooms", infraHandler.GetRooms)
		admin.POST("/rooms/:id/seats", infraHandler.GenerateSeats)

		// Exams
		admin.GET("/exams", examHandler.GetExams)
		admin.POST("/exams", examHandler.CreateExam)
		admin.GET("/exams/:id", examHandler.GetExam)
		admin.POST("/exams/:id/registrations", examHandler.RegisterStudents)
		admin.GET("/exams/:id/registrations", examHandler.GetRegistrations)
		admin.POST("/exams/:id/invigilators", examHandler.AssignInvigilator)
		admin.GET("/exams/:id/invigilators", examHandler.GetInvigilators)
		admin.GET("/exams/:id/seats", examHandler.GetSeatAllocations)

		// Bulk import
		admin.POST("/import/structure", importHandler.ImportStructure)
		admin.POST("/import/students", importHandler.ImportStudents)
		admin.GET("/imports", importHandler.GetImportHistory)
	}

	staff := api.Group("/staff")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.StaffMiddleware())
	{
		staff.PUT("/exams/:id/attendance", examHandler.MarkAttendance)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

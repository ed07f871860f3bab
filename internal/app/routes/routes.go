package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uruhongore/academy/internal/app/controllers"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/middleware"
	"github.com/uruhongore/academy/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Module       *controllers.ModuleController
	AcademicData *controllers.AcademicDataController
	Student      *controllers.StudentController
	Report       *controllers.ReportController
	Document     *controllers.DocumentController
	WebSocket    *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", middleware.ValidateRequest(func() interface{} { return &dto.RegisterRequest{} }), c.Auth.Register)
		auth.POST("/login", middleware.ValidateRequest(func() interface{} { return &dto.LoginRequest{} }), c.Auth.Login)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	headOnly := authMiddleware.RequireRoles(models.RoleHead)
	staffOnly := authMiddleware.RequireRoles(models.RoleHead, models.RoleTeacher)

	users := authenticated.Group("/users", headOnly)
	{
		users.GET("", c.User.ListUsers)
		users.GET("/:id", c.User.GetUserByID)
	}

	// Reads are open to every role; the controller hides drafts from non-staff
	academicData := authenticated.Group("/academic-data")
	{
		academicData.GET("/published", c.AcademicData.GetAllPublished)
		academicData.GET("/:id", c.AcademicData.Get)
		academicData.GET("", staffOnly, c.AcademicData.GetAll)
		academicData.POST("/get-or-create", staffOnly, c.AcademicData.GetOrCreate)

		manage := academicData.Group("", headOnly)
		manage.POST("", c.AcademicData.Create)
		manage.PUT("/:id", c.AcademicData.Update)
		manage.DELETE("/:id", c.AcademicData.Delete)
		manage.PUT("/:id/publish", c.AcademicData.Publish)
		manage.PUT("/:id/unpublish", c.AcademicData.Unpublish)
	}

	modules := authenticated.Group("/modules")
	{
		modules.GET("", c.Module.ListActiveModules)
		modules.GET("/all", c.Module.ListAllModules)
		modules.GET("/by-name/:name", c.Module.GetModuleByName)
		modules.GET("/:id", c.Module.GetModule)

		manage := modules.Group("", headOnly)
		manage.POST("", c.Module.CreateModule)
		manage.POST("/bulk", c.Module.CreateModules)
		manage.PUT("/:id", c.Module.UpdateModule)
		manage.DELETE("/:id", c.Module.DeleteModule)
	}

	// Parents reach their own children through the policy checks in the controller
	students := authenticated.Group("/students")
	{
		students.GET("/:id", c.Student.GetStudent)
		students.GET("/:id/parents", c.Student.GetStudentParents)
		students.GET("/parent/:parentId", c.Student.GetStudentsByParent)
		students.GET("", staffOnly, c.Student.ListStudents)
		students.GET("/class/:classLevel", staffOnly, c.Student.GetStudentsByClassLevel)

		manage := students.Group("", headOnly)
		manage.POST("", c.Student.CreateStudent)
		manage.POST("/:id/parents/:parentId", c.Student.AssignParent)
		manage.POST("/:id/modules/:moduleId", c.Student.EnrollModule)
		manage.POST("/:id/profile-photo", c.Student.UploadProfilePhoto)
		manage.DELETE("/:id/profile-photo", c.Student.DeleteProfilePhoto)
	}

	reports := authenticated.Group("/reports")
	{
		reports.GET("/student/:id", c.Report.GetStudentReports)
		reports.GET("/student/:id/academic-data/:academicDataId", c.Report.GetStudentReportsByAcademicData)
		reports.GET("/student/:id/trimester/:trimester/year/:year", c.Report.GetStudentReportsByTrimester)
		reports.GET("/student/:id/year/:year", c.Report.GetStudentReportsByYear)

		reports.GET("/bulletin/:studentId/trimester/:trimester/year/:year", c.Report.BulletinByTrimester)
		reports.GET("/bulletin/:studentId/academic-data/:academicDataId", c.Report.BulletinByAcademicData)
		reports.GET("/grid/:studentId/year/:year", c.Report.Grid)
		reports.GET("/template/:studentId/trimester/:trimester/year/:year", staffOnly, c.Report.Template)

		marks := reports.Group("", staffOnly)
		marks.POST("/marks", c.Report.AddMark)
		marks.POST("/marks/bulk", c.Report.AddBulkMarks)
		marks.PUT("/:id", c.Report.UpdateMark)
		marks.DELETE("/:id", c.Report.DeleteMark)
	}

	documents := authenticated.Group("/documents", staffOnly)
	{
		documents.GET("/preview/bulletin", c.Document.PreviewBulletin)
		documents.POST("/download/bulletin", c.Document.DownloadBulletin)
		documents.POST("/generate/bulletin", c.Document.GenerateBulletin)
	}

	if c.WebSocket != nil {
		authenticated.GET("/ws/academic-data", c.WebSocket.HandleConnection)
	}
}

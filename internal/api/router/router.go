package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"school-attendance/config"
	"school-attendance/internal/api/handler"
	"school-attendance/internal/api/middleware"
	"school-attendance/internal/model"
	"school-attendance/pkg/jwt"
	"school-attendance/pkg/validator"
)

// Guards optional Redis-backed middleware dependencies; nil disables each
type Guards struct {
	Tokens  middleware.TokenChecker
	Limiter middleware.RateLimiter
}

// Setup builds the gin engine
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, guards Guards, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		if err := validator.Register(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.Metrics())

	// ── health / metrics ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := middleware.RoleAuth(model.RoleAdmin)
	teacher := middleware.RoleAuth(model.RoleTeacher)
	staff := middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(guards.Limiter, cfg.Server.RateLimit, time.Minute))
	{
		// public
		v1.POST("/auth/register", h.Auth.Register)
		v1.GET("/courses", h.Course.List)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, guards.Tokens))
		{
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.PUT("/me", h.User.UpdateMe)
				users.DELETE("/me", h.User.DeleteMe)
			}

			adminGroup := authorized.Group("/admin", admin)
			{
				adminGroup.GET("/teachers", h.Admin.ListTeachers)
				adminGroup.PUT("/teachers/:id", h.Admin.UpdateTeacher)
				adminGroup.PUT("/teachers/:id/approve", h.Admin.ApproveTeacher)
				adminGroup.DELETE("/teachers/:id", h.Admin.DeleteTeacher)
				adminGroup.GET("/stats", h.Admin.Stats)
			}

			courses := authorized.Group("/courses", admin)
			{
				courses.POST("", h.Course.Create)
				courses.PUT("/:id", h.Course.Rename)
				courses.DELETE("/:id", h.Course.Delete)
				courses.POST("/:id/subjects", h.Course.AddSubject)
				courses.PUT("/:id/subjects", h.Course.RenameSubject)
				courses.DELETE("/:id/subjects", h.Course.RemoveSubject)
			}

			students := authorized.Group("/students", staff)
			{
				students.GET("", h.Student.List)
				students.POST("", h.Student.Create)
				students.PUT("/:id", h.Student.Update)
				students.DELETE("/:id", h.Student.Delete)
			}

			timetable := authorized.Group("/timetable")
			{
				timetable.GET("", h.Timetable.List)
				timetable.GET("/calendar.ics", h.Timetable.Calendar)
				timetable.POST("", teacher, h.Timetable.Create)
				timetable.PUT("/:id", teacher, h.Timetable.Update)
				timetable.PUT("/:id/cancel", teacher, h.Timetable.Cancel)
				timetable.DELETE("/:id", teacher, h.Timetable.Delete)
			}

			attendance := authorized.Group("/attendance")
			{
				attendance.POST("", teacher, h.Attendance.Submit)
				attendance.GET("", h.Attendance.List)
				attendance.GET("/export", h.Attendance.Export)
			}

			notices := authorized.Group("/notices")
			{
				notices.GET("", h.Notice.List)
				notices.POST("", admin, h.Notice.Create)
				notices.PUT("/:id", admin, h.Notice.Update)
				notices.DELETE("/:id", admin, h.Notice.Delete)
			}

			authorized.GET("/events", h.Event.Stream)
		}
	}

	return r, nil
}

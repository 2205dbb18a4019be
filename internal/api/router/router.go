package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/api/handler"
	"fyp-portal/internal/api/middleware"
	"fyp-portal/internal/model"
	"fyp-portal/pkg/jwt"
	"fyp-portal/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Storage.MaxUploadSize))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 上传文件静态访问
	r.Static("/uploads", cfg.Storage.UploadDir)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；:role 为 student / supervisor / coordinator）
		// 登录与刷新接口限流，防止爆破口令或刷 Token
		auth := v1.Group("/auth")
		{
			loginLimiter := middleware.RateLimit(rdb, 10, time.Minute)
			auth.POST("/:role/login", loginLimiter, h.Auth.Login)
			auth.POST("/refresh", loginLimiter, h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/profile", h.Auth.GetProfile)
			authorized.PUT("/auth/profile", h.Auth.UpdateProfile)
			authorized.PUT("/auth/password", h.Auth.SetPassword)

			// ── 学生门户 ──
			group := authorized.Group("/group", middleware.RoleAuth(model.RoleStudent))
			{
				group.POST("/create", h.Group.Create)
				group.GET("/my", h.Group.GetMyGroup)
				group.PUT("/members", h.Group.UpdateMembers)
			}

			project := authorized.Group("/project", middleware.RoleAuth(model.RoleStudent))
			{
				project.GET("/ideas", h.Idea.ListAvailable)
				project.POST("/select-idea", h.Idea.Select)
				project.POST("/request-custom-idea", h.Idea.RequestCustom)
				project.GET("/my", h.Idea.GetMyProject)

				project.GET("/proposals", h.Submission.ListMyProposals)
				project.POST("/proposals", h.Submission.UploadProposal)
				project.POST("/proposals/submit", h.Submission.SubmitProposal)

				project.GET("/documents", h.Submission.GetMyDocuments)
				project.POST("/documents", h.Submission.UploadDocument)

				project.GET("/schedule", h.Schedule.GetMySchedule)
				project.GET("/evaluation", h.Evaluation.GetMyEvaluation)
			}

			// ── 导师门户 ──
			supervisor := authorized.Group("/supervisor", middleware.RoleAuth(model.RoleSupervisor))
			{
				supervisor.GET("/groups", h.Group.ListMine)

				supervisor.POST("/ideas", h.Idea.Create)
				supervisor.GET("/ideas", h.Idea.ListMine)
				supervisor.GET("/ideas/pending", h.Idea.ListPending)
				supervisor.POST("/ideas/:id/approve", h.Idea.Approve)
				supervisor.POST("/ideas/:id/reject", h.Idea.Reject)
				supervisor.DELETE("/ideas/:id", h.Idea.Delete)

				supervisor.GET("/proposals", h.Submission.ListProposals)
				supervisor.POST("/proposals/:id/approve", h.Submission.ApproveProposal)
				supervisor.POST("/proposals/:id/reject", h.Submission.RejectProposal)
				supervisor.POST("/proposals/:id/comment", h.Submission.CommentProposal)

				supervisor.GET("/documents", h.Submission.ListDocuments)
				supervisor.POST("/documents/:id/approve", h.Submission.ApproveDocument)
				supervisor.POST("/documents/:id/reject", h.Submission.RejectDocument)
				supervisor.POST("/documents/:id/feedback", h.Submission.DocumentFeedback)

				supervisor.GET("/final-evaluations", h.Evaluation.ListMine)
				supervisor.PUT("/final-evaluations/:id/marks", h.Evaluation.UpdateMarks)
				supervisor.PUT("/final-evaluations/:id/feedback", h.Evaluation.UpdateFeedback)
				supervisor.POST("/final-evaluations/:id/complete", h.Evaluation.Complete)
			}

			// ── 协调员门户 ──
			coordinator := authorized.Group("/coordinator", middleware.RoleAuth(model.RoleCoordinator))
			{
				coordinator.POST("/departments", h.Department.Create)
				coordinator.GET("/departments", h.Department.List)
				coordinator.GET("/departments/:id", h.Department.GetByID)
				coordinator.PUT("/departments/:id", h.Department.Update)
				coordinator.DELETE("/departments/:id", h.Department.Delete)
				coordinator.GET("/departments/:id/faculty", h.Department.ListFaculty)
				coordinator.POST("/departments/:id/faculty", h.Department.AddFaculty)
				coordinator.DELETE("/departments/:id/faculty/:facultyId", h.Department.RemoveFaculty)
				coordinator.POST("/faculty/transfer", h.Department.TransferFaculty)

				coordinator.GET("/groups", h.Group.List)
				coordinator.GET("/groups/:id", h.Group.GetByID)
				coordinator.PUT("/groups/:id/status", h.Group.UpdateStatus)
				coordinator.PUT("/groups/:id/supervisor", h.Group.AssignSupervisor)

				coordinator.POST("/panels", h.Panel.Create)
				coordinator.GET("/panels", h.Panel.List)
				coordinator.GET("/panels/:id", h.Panel.GetByID)
				coordinator.PUT("/panels/:id", h.Panel.Update)
				coordinator.DELETE("/panels/:id", h.Panel.Delete)

				coordinator.POST("/schedules", h.Schedule.Create)
				coordinator.GET("/schedules", h.Schedule.List)
				coordinator.POST("/schedules/auto", h.Schedule.AutoSchedule)
				coordinator.POST("/schedules/swap", h.Schedule.Swap)
				coordinator.GET("/schedules/:id", h.Schedule.GetByID)
				coordinator.PUT("/schedules/:id", h.Schedule.Update)
				coordinator.DELETE("/schedules/:id", h.Schedule.Delete)

				coordinator.GET("/final-evaluations", h.Evaluation.List)

				coordinator.GET("/export/marks", h.Export.ExportMarks)
				coordinator.GET("/export/schedule.ics", h.Export.ExportScheduleICS)
			}
		}
	}

	return r
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/impactly/impactly-api/internal/handlers"
	"github.com/impactly/impactly-api/internal/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/google", handlers.GoogleLogin)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)
	protected.Get("/me/activity", handlers.GetMyActivity)
	protected.Get("/users/:id", handlers.GetUserProfile)
	protected.Get("/users/:id/badges", handlers.GetUserBadges)
	protected.Get("/users/:id/activity", handlers.GetUserActivity)
	protected.Put("/users/:id/role", middleware.AdminOnly(), handlers.UpdateUserRole)

	projects := protected.Group("/projects")
	projects.Get("/", handlers.GetProjects)
	projects.Post("/", handlers.CreateProject)
	projects.Get("/:id", handlers.GetProject)
	projects.Put("/:id", handlers.UpdateProject)
	projects.Delete("/:id", handlers.DeleteProject)
	projects.Get("/:id/boards", handlers.GetProjectBoards)
	projects.Post("/:id/boards", handlers.CreateBoard)
	projects.Get("/:id/members", handlers.GetProjectMembers)
	projects.Post("/:id/members", handlers.AddProjectMember)
	projects.Delete("/:id/members/:userId", handlers.RemoveProjectMember)
	projects.Get("/:id/activity", handlers.GetProjectActivity)

	boards := protected.Group("/boards")
	boards.Get("/:id", handlers.GetBoard)
	boards.Put("/:id", handlers.UpdateBoard)
	boards.Delete("/:id", handlers.DeleteBoard)

	tasks := protected.Group("/tasks")
	tasks.Get("/", handlers.SearchTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/mine", handlers.GetMyTasks)
	tasks.Get("/:id", handlers.GetTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)
	tasks.Post("/:id/transition", handlers.TransitionTask)
	tasks.Put("/:id/assignee", handlers.AssignTask)
	tasks.Post("/:id/comments", handlers.AddComment)
	tasks.Get("/:id/comments", handlers.GetTaskComments)
	tasks.Put("/:id/comments/:commentId", handlers.UpdateComment)
	tasks.Delete("/:id/comments/:commentId", handlers.DeleteComment)
	tasks.Post("/:id/dependencies", handlers.CreateTaskDependency)
	tasks.Get("/:id/dependencies", handlers.GetTaskDependencies)
	tasks.Delete("/:id/dependencies/:dependencyId", handlers.DeleteTaskDependency)
	tasks.Get("/:id/activity", handlers.GetTaskActivity)

	badges := protected.Group("/badges")
	badges.Get("/", handlers.GetBadges)
	badges.Post("/", middleware.AdminOnly(), handlers.CreateBadge)
	badges.Put("/:id", middleware.AdminOnly(), handlers.UpdateBadge)
	badges.Delete("/:id", middleware.AdminOnly(), handlers.DeactivateBadge)
	badges.Post("/:id/award", middleware.AdminOnly(), handlers.AwardBadge)

	protected.Get("/leaderboard", handlers.GetLeaderboard)
	protected.Get("/activity", handlers.GetActivityFeed)

	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// WebSocket for real-time board updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/boards/:id", websocket.New(handlers.HandleWebSocket))
}

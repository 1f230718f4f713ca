package routes

import (
	"net/http"

	"kanban-board-api/internal/handlers"
	"kanban-board-api/internal/middleware"
	"kanban-board-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// TaskResource is the set of handlers behind the /api routes. Both the
// store-backed handlers and the upstream forwarder implement it.
type TaskResource interface {
	GetTasks(c *gin.Context)
	CreateTask(c *gin.Context)
	GetTaskByID(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
	GetColumns(c *gin.Context)
	ResetBoard(c *gin.Context)
}

func SetupRoutes(tasks TaskResource, hub *realtime.Hub) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()
	ginRouter.Use(middleware.RequestID())

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Kanban board API is running",
		})
	})

	// Preflights are answered by the CORS wrapper; plain OPTIONS land here
	ginRouter.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := ginRouter.Group("/api")
	{
		// Task endpoints
		api.GET("/tasks", tasks.GetTasks)
		api.POST("/tasks", tasks.CreateTask)
		api.GET("/tasks/:id", tasks.GetTaskByID)
		api.PUT("/tasks/:id", tasks.UpdateTask)
		api.PATCH("/tasks/:id", tasks.UpdateTask)
		api.DELETE("/tasks/:id", tasks.DeleteTask)

		// Column and board endpoints
		api.GET("/columns", tasks.GetColumns)
		api.POST("/reset", tasks.ResetBoard)

		// Realtime board events
		api.GET("/ws", handlers.BoardEvents(hub))
	}

	return ginRouter
}

// Handler returns the full HTTP handler: the gin engine behind CORS.
func Handler(tasks TaskResource, hub *realtime.Hub) http.Handler {
	return middleware.CORS(SetupRoutes(tasks, hub))
}

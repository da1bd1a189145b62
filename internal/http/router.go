package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.AllowedOrigins))
	}

	health := NewHealthController(cfg.Health, cfg.Scheduler, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	if cfg.ReadOnly {
		api.Use(ReadOnlyMiddleware())
	}

	booksController := NewBooksController(cfg.Books, cfg.Entries)
	api.GET("/books", booksController.GetAllBooks)
	api.POST("/books", booksController.CreateBook)
	api.GET("/books/:id", booksController.GetBook)
	api.PATCH("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)
	api.GET("/books/:id/notes.md", booksController.DownloadNotes)

	entriesController := NewEntriesController(cfg.Entries)
	api.GET("/books/:id/entries", entriesController.ListEntries)
	api.POST("/books/:id/entries", entriesController.CreateEntry)
	api.PATCH("/entries/:id", entriesController.UpdateEntry)
	api.DELETE("/entries/:id", entriesController.DeleteEntry)

	settingsController := NewSettingsController(cfg.Settings)
	api.GET("/settings", settingsController.GetSettings)
	api.PUT("/settings/:key", settingsController.UpdateSetting)

	summaryController := NewSummaryController(cfg.Books)
	api.GET("/summary/:year/:month", summaryController.MonthlySummary)

	if cfg.Backups != nil {
		backupController := NewBackupController(cfg.Backups)
		api.GET("/backup", backupController.Export)
		if cfg.RestoreLimit != nil {
			api.POST("/backup", RateLimitMiddleware(cfg.RestoreLimit), backupController.Import)
		} else {
			api.POST("/backup", backupController.Import)
		}
	}

	return router
}

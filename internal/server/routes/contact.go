package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/handlers"
)

// SetupContactRoutes configures contact form routes
func SetupContactRoutes(router gin.IRoutes, contact *handlers.ContactHandler, m *Middleware) {
	// The per-source limit runs first so rejected requests never reach validation or the provider
	router.POST("/send-email",
		m.ContactLimit,
		m.BodyLimit,
		m.Validation.BindContactRequest(),
		contact.Submit,
	)
}

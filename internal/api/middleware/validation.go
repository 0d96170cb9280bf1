package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	contactdto "github.com/osa911/contactrelay/internal/api/dto/v1/contact"
)

// ValidationMiddleware decodes request bodies
type ValidationMiddleware struct{}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{}
}

// BindContactRequest decodes the contact form body and stores the resulting
// *contact.Submission in the context. Field rules are checked by the contact
// service, so this only rejects bodies that cannot be decoded.
func (m *ValidationMiddleware) BindContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactdto.ContactRequest

		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			// An empty body decodes to an empty submission and is then
			// rejected with the missing fields reason
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(common.MsgBodyTooLarge))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.MsgInvalidBody))
			return
		}

		submission := req.ToSubmission()
		c.Set(constants.ContextKeyContact, &submission)
		c.Next()
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	contactdto "github.com/osa911/contactrelay/internal/api/dto/v1/contact"
	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/service"
	"github.com/osa911/contactrelay/internal/utils"
)

// ContactSubmitter relays a validated submission to the email provider
type ContactSubmitter interface {
	Submit(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error)
}

type ContactHandler struct {
	contactService ContactSubmitter
	logger         *logging.Logger
}

func NewContactHandler(contactService ContactSubmitter, logger *logging.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	contactData, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleAPIError(c, h.logger, errors.New("contact data not found in context"), http.StatusInternalServerError, common.MsgSendFailed)
		return
	}

	submission, ok := contactData.(*contact.Submission)
	if !ok {
		utils.HandleAPIError(c, h.logger, errors.New("invalid contact data format"), http.StatusInternalServerError, common.MsgSendFailed)
		return
	}

	// A client that disconnects must not abort a send that is already under way
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.contactService.Submit(ctx, *submission)
	if err != nil {
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			utils.HandleClientError(c, http.StatusBadRequest, ve.Reason)
			return
		}
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.MsgSendFailed)
		return
	}

	utils.HandleSuccess(c, contactdto.ContactResponse{
		Success: true,
		Message: common.MsgEmailSent,
		EmailID: result.EmailID,
	})
}

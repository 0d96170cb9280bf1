package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/service"
)

type submitterFunc func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error)

func (f submitterFunc) Submit(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
	return f(ctx, sub)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func runSubmit(t *testing.T, h *ContactHandler, sub *contact.Submission) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	router := gin.New()
	router.POST("/send-email", func(c *gin.Context) {
		if sub != nil {
			c.Set(constants.ContextKeyContact, sub)
		}
		c.Next()
	}, h.Submit)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-email", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestContactHandlerSuccess(t *testing.T) {
	h := NewContactHandler(submitterFunc(func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
		return &service.SubmitResult{EmailID: "abc"}, nil
	}), logging.NewNop())

	w, body := runSubmit(t, h, &contact.Submission{Name: "Ada", Email: "ada@example.com", Message: "hi"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"success": true,
		"message": "Email sent successfully!",
		"emailId": "abc",
	}, body)
}

func TestContactHandlerValidationError(t *testing.T) {
	h := NewContactHandler(submitterFunc(func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
		return nil, contact.Validate(sub)
	}), logging.NewNop())

	w, body := runSubmit(t, h, &contact.Submission{Name: "Ada", Email: "nope", Message: "hi"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email format.", body["error"])
}

func TestContactHandlerHidesDeliveryErrors(t *testing.T) {
	h := NewContactHandler(submitterFunc(func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
		return nil, &service.DeliveryError{Kind: service.DeliveryKindProvider, Err: errors.New("403 domain not verified")}
	}), logging.NewNop())

	w, body := runSubmit(t, h, &contact.Submission{Name: "Ada", Email: "ada@example.com", Message: "hi"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to send email. Please try again later.", body["error"])
	assert.NotContains(t, w.Body.String(), "domain not verified")
}

func TestContactHandlerIgnoresClientCancellation(t *testing.T) {
	var sendCtx context.Context
	h := NewContactHandler(submitterFunc(func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
		sendCtx = ctx
		return &service.SubmitResult{EmailID: "abc"}, nil
	}), logging.NewNop())

	router := gin.New()
	router.POST("/send-email", func(c *gin.Context) {
		c.Set(constants.ContextKeyContact, &contact.Submission{Name: "Ada", Email: "ada@example.com", Message: "hi"})
	}, h.Submit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-email", nil).WithContext(ctx))

	require.NotNil(t, sendCtx)
	assert.NoError(t, sendCtx.Err())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContactHandlerWithoutSubmission(t *testing.T) {
	h := NewContactHandler(submitterFunc(func(ctx context.Context, sub contact.Submission) (*service.SubmitResult, error) {
		t.Fatal("submit must not be called")
		return nil, nil
	}), logging.NewNop())

	w, _ := runSubmit(t, h, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/", NewHealthHandler("Intarvas").Check)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Intarvas Contact API is running"}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	router := gin.New()
	router.NoRoute(NotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/anything", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}

package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorLogHandler receives client-side error reports
type ErrorLogHandler struct {
	sink ErrorSink
}

// NewErrorLogHandler creates a new ErrorLogHandler. Without a sink, reports
// only reach the process log.
func NewErrorLogHandler(sink ErrorSink) *ErrorLogHandler {
	return &ErrorLogHandler{sink: sink}
}

// RegisterErrorLogRoutes registers the unauthenticated error sink route
func (h *ErrorLogHandler) RegisterErrorLogRoutes(g *echo.Group) {
	g.POST("/logError", h.LogError)
}

// LogError stores one error report
func (h *ErrorLogHandler) LogError(c echo.Context) error {
	var req models.LogErrorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	zap.L().Warn("client error reported",
		zap.String("error", req.Error),
		zap.String("location", req.Location),
		zap.String("context", req.Context),
		zap.String("userId", req.UserID),
	)
	if h.sink == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "Error logged successfully"})
	}

	entry := &models.ErrorLog{
		Error:    req.Error,
		Stack:    req.Stack,
		Location: req.Location,
		Context:  req.Context,
		UserID:   req.UserID,
	}
	if err := h.sink.CreateErrorLog(c.Request().Context(), entry); err != nil {
		zap.L().Error("store error report", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Error logged successfully"})
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/baker339/DOGR/internal/graph"
	"github.com/baker339/DOGR/internal/imagehost"
	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"github.com/baker339/DOGR/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorSink receives reports of unexpected server errors.
type ErrorSink interface {
	CreateErrorLog(ctx context.Context, entry *models.ErrorLog) error
}

// toHTTPError maps domain errors onto HTTP errors. Anything unrecognised is
// returned unchanged and ends up as a 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, repositories.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, graph.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, leaderboard.ErrNoTallyStore):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Leaderboard tallies are not configured")
	case errors.Is(err, imagehost.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imagehost.ErrEmptyImage), errors.Is(err, imagehost.ErrNotImage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// actingUser returns the authenticated session. A user id claimed by the
// request, when present, has to be the session's own.
func actingUser(c echo.Context, claimed string) (session.Session, error) {
	s, err := session.From(c)
	if err != nil {
		return session.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if claimed != "" && claimed != s.UserID {
		return session.Session{}, echo.NewHTTPError(http.StatusForbidden, "userId does not match the authenticated user")
	}
	return s, nil
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// ErrorReporter is the echo error handler. Errors that are not HTTP errors are
// logged, answered with a generic 500 and reported to the sink without
// blocking the response.
type ErrorReporter struct {
	sink    ErrorSink
	logger  *zap.Logger
	timeout time.Duration
}

// NewErrorReporter creates an ErrorReporter. sink may be nil.
func NewErrorReporter(sink ErrorSink, logger *zap.Logger) *ErrorReporter {
	return &ErrorReporter{sink: sink, logger: logger, timeout: 5 * time.Second}
}

// Handle implements echo.HTTPErrorHandler.
func (r *ErrorReporter) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(toHTTPError(err), &he) {
		r.report(err, c)
		he = echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(he.Code)
	} else {
		respErr = c.JSON(he.Code, echo.Map{"message": he.Message})
	}
	if respErr != nil {
		r.logger.Error("write error response", zap.Error(respErr))
	}
}

func (r *ErrorReporter) report(err error, c echo.Context) {
	entry := &models.ErrorLog{
		Error:    err.Error(),
		Location: c.Request().Method + " " + c.Request().URL.Path,
		Context:  "API Route",
	}
	if s, serr := session.From(c); serr == nil {
		entry.UserID = s.UserID
	}
	r.logger.Error("unhandled error",
		zap.String("location", entry.Location),
		zap.String("userId", entry.UserID),
		zap.Error(err),
	)

	if r.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.sink.CreateErrorLog(ctx, entry); err != nil {
			r.logger.Warn("report error to sink", zap.Error(err))
		}
	}()
}

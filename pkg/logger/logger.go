package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development (more readable), JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithSessionID adds guest session ID to logger context
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Upstream logging methods

// LogUpstreamCall logs a call to an external collaborator
func (l *Logger) LogUpstreamCall(ctx context.Context, target, path string, status int, duration time.Duration) {
	l.Logger.DebugContext(ctx,
		"Upstream Call",
		slog.String("target", target),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	)
}

// LogPricingFallback logs that ticket pricing degraded to the default entries
func (l *Logger) LogPricingFallback(ctx context.Context, placeID string, err error) {
	l.Logger.WarnContext(ctx,
		"Pricing Fallback",
		slog.String("place_id", placeID),
		slog.Bool("degraded", true),
		slog.String("error", err.Error()),
	)
}

// Business logic logging methods

// LogDraftCreated logs when a booking draft is created
func (l *Logger) LogDraftCreated(ctx context.Context, draftID, placeName string, total int64) {
	l.Logger.InfoContext(ctx,
		"Draft Created",
		slog.String("draft_id", draftID),
		slog.String("place_name", placeName),
		slog.Int64("total", total),
	)
}

// LogBookingHandoff logs when a booking is handed off to the payment gateway
func (l *Logger) LogBookingHandoff(ctx context.Context, bookingRef, draftID string, total int64) {
	l.Logger.InfoContext(ctx,
		"Booking Handoff",
		slog.String("booking_ref", bookingRef),
		slog.String("draft_id", draftID),
		slog.Int64("total", total),
	)
}

// Security logging methods

// LogOTPRequested logs a guest OTP request (contact is masked)
func (l *Logger) LogOTPRequested(ctx context.Context, channel, maskedContact string) {
	l.Logger.InfoContext(ctx,
		"OTP Requested",
		slog.String("channel", channel),
		slog.String("contact", maskedContact),
	)
}

// LogAuthSuccess logs successful OTP verification
func (l *Logger) LogAuthSuccess(ctx context.Context, sessionID, channel string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("session_id", sessionID),
		slog.String("channel", channel),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogSessionInvalidated logs that a guest session was torn down
func (l *Logger) LogSessionInvalidated(ctx context.Context, sessionID, cause string) {
	l.Logger.InfoContext(ctx,
		"Session Invalidated",
		slog.String("session_id", sessionID),
		slog.String("cause", cause),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventAuthFailure is logged when a request carries no valid session or token.
	EventAuthFailure SecurityEventType = "auth_failure"
	// EventAccessDenied is logged when an authenticated caller touches another coach's data.
	EventAccessDenied SecurityEventType = "access_denied"
	// EventUploadRejected is logged when an upload exceeds the size limit.
	EventUploadRejected SecurityEventType = "upload_rejected"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   RequestDetails    `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// RequestDetails identifies the request that produced an event.
type RequestDetails struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor. Events are written
// under the "security_audit" logger name for filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogAuthFailure records a rejected credential. Repeated failures from one
// address are the usual sign of token guessing, so it logs at WARN.
func (a *SecurityAuditor) LogAuthFailure(ctx context.Context, details RequestDetails, clientIP string) {
	a.log(ctx, EventAuthFailure, "warning", "Authentication failed", details, clientIP)
}

// LogAccessDenied records a caller reaching for a resource it does not own.
func (a *SecurityAuditor) LogAccessDenied(ctx context.Context, details RequestDetails, clientIP string) {
	a.log(ctx, EventAccessDenied, "warning", "Access denied", details, clientIP)
}

// LogUploadRejected records an upload refused for its size.
func (a *SecurityAuditor) LogUploadRejected(ctx context.Context, details RequestDetails, clientIP string) {
	a.log(ctx, EventUploadRejected, "info", "Upload rejected", details, clientIP)
}

func (a *SecurityAuditor) log(
	ctx context.Context,
	eventType SecurityEventType,
	severity string,
	message string,
	details RequestDetails,
	clientIP string,
) {
	userID := UserFromContext(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		ClientIP:  clientIP,
		Details:   details,
		Severity:  severity,
	}

	// Marshaling a struct of plain fields cannot fail.
	eventJSON, _ := json.Marshal(event)

	fields := []zap.Field{
		zap.String("event_json", string(eventJSON)),
		zap.String("method", details.Method),
		zap.String("path", details.Path),
		zap.Int("status", details.Status),
		zap.String("client_ip", clientIP),
		zap.String("user_id", userID),
		zap.String("severity", severity),
	}
	if severity == "info" {
		a.logger.Info(message, fields...)
		return
	}
	a.logger.Warn(message, fields...)
}

type subjectKey struct{}

// subject is filled in by the auth layer once a caller is identified, so
// middleware running outside it can still attribute the event.
type subject struct {
	userID string
}

// WithSubject returns a context that can later be tagged with SetUser.
func WithSubject(ctx context.Context) context.Context {
	return context.WithValue(ctx, subjectKey{}, &subject{})
}

// SetUser tags the request with the authenticated user. It is a no-op for
// contexts not prepared by WithSubject.
func SetUser(ctx context.Context, userID string) {
	if s, ok := ctx.Value(subjectKey{}).(*subject); ok {
		s.userID = userID
	}
}

// UserFromContext returns the user recorded by SetUser, or "".
func UserFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey{}).(*subject); ok {
		return s.userID
	}
	return ""
}

package errors

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/config"
)

// InitSentry initializes the Sentry SDK. Returns false when no DSN is
// configured, in which case capture calls become no-ops.
func InitSentry(cfg *config.SentryConfig, environment, serviceName string) (bool, error) {
	if cfg == nil || cfg.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      environment,
		ServerName:       serviceName,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Level == sentry.LevelInfo || event.Level == sentry.LevelDebug {
				return nil
			}
			return event
		},
		BeforeBreadcrumb: func(breadcrumb *sentry.Breadcrumb, hint *sentry.BreadcrumbHint) *sentry.Breadcrumb {
			// Strip sensitive headers from request breadcrumbs
			if breadcrumb.Category == "http" && breadcrumb.Data != nil {
				delete(breadcrumb.Data, "Authorization")
				delete(breadcrumb.Data, "Cookie")
			}
			return breadcrumb
		},
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// CaptureError sends an unexpected error to Sentry. Typed business errors
// (validation, state conflict, not found) are operator-facing outcomes, not
// defects, and are not reported.
func CaptureError(err error) *sentry.EventID {
	if err == nil || !ShouldReportError(err) {
		return nil
	}
	return sentry.CaptureException(err)
}

// ShouldReportError reports whether an error is worth an event.
func ShouldReportError(err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*common.AppError); ok {
		return appErr.Code >= 500
	}
	return true
}

// Flush flushes the Sentry buffer
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

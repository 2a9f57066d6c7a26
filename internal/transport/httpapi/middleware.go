package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/workforce"
)

const (
	headerRequestID  = "X-Request-ID"
	headerEmployeeID = "X-Employee-ID"
	headerUserID     = "X-User-ID"
	headerRoles      = "X-Roles"
)

type callerKey struct{}

// requestContext attaches the base logger and a request id to every request.
// An incoming X-Request-ID is kept when it parses as a UUID.
func requestContext(base context.Context) func(http.Handler) http.Handler {
	logger := logging.Logger(base)
	attrs := logging.Attrs(base)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			if incoming, err := uuid.Parse(strings.TrimSpace(r.Header.Get(headerRequestID))); err == nil {
				requestID = incoming.String()
			}
			w.Header().Set(headerRequestID, requestID)

			ctx := logging.WithLogger(r.Context(), logger)
			ctx = logging.WithAttrs(ctx, attrs...)
			ctx = logging.WithAttrs(ctx, slog.String("component", "transport.http"))
			ctx = logging.WithRequestID(ctx, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func recordRequests(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			if recorder != nil {
				recorder.HTTPRequest(route, code)
			}
			logging.Debug(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", code),
				slog.Duration("elapsed", time.Since(started)),
			)
		})
	}
}

// callerIdentity reads the identity asserted by the upstream gateway. A
// request without any identity header runs unscoped.
func callerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := parseCaller(r.Header)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if caller != nil {
			ctx := context.WithValue(r.Context(), callerKey{}, caller)
			ctx = logging.WithAttrs(ctx,
				slog.Uint64("caller_employee_id", caller.EmployeeID),
				slog.Uint64("caller_user_id", caller.UserID),
			)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func parseCaller(h http.Header) (*workforce.Caller, error) {
	employee := strings.TrimSpace(h.Get(headerEmployeeID))
	user := strings.TrimSpace(h.Get(headerUserID))
	roles := splitList(h.Get(headerRoles))
	if employee == "" && user == "" && len(roles) == 0 {
		return nil, nil
	}

	caller := &workforce.Caller{Roles: roles}
	if employee != "" {
		id, err := strconv.ParseUint(employee, 10, 64)
		if err != nil {
			return nil, badParam(headerEmployeeID, employee)
		}
		caller.EmployeeID = id
	}
	if user != "" {
		id, err := strconv.ParseUint(user, 10, 64)
		if err != nil {
			return nil, badParam(headerUserID, user)
		}
		caller.UserID = id
	}
	return caller, nil
}

func callerFrom(ctx context.Context) *workforce.Caller {
	caller, _ := ctx.Value(callerKey{}).(*workforce.Caller)
	return caller
}

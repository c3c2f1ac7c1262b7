package routing

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/ctxlog"
	gohttp "github.com/km-arc/go-registry/framework/http"
)

// RequestIDHeader carries the ID of the request scope back to the client.
const RequestIDHeader = "X-Request-ID"

// ScopeSetup adds request-specific registrations to a fresh request scope.
type ScopeSetup func(scope *container.Registry, req *http.Request) error

// Scoped returns middleware that gives every request its own child of parent.
//
// The child holds the *http.Request and a fresh request ID (a string tagged
// gohttp.RequestIDTag). Anything registered by setup lives only as long as
// the request; singletons registered on parent are still shared. The child is
// available to handlers through container.FromContext, and the request logger
// through ctxlog.FromContext.
//
//	router.Middleware(routing.Scoped(app.Registry, func(s *container.Registry, r *http.Request) error {
//	    return container.RegisterInstance(s, currentUser(r))
//	}))
func Scoped(parent *container.Registry, setup ...ScopeSetup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			scope := parent.Child()

			if err := seed(scope, r, id, setup); err != nil {
				gohttp.NewResponse(w).Fail(err)
				return
			}

			logger := requestLogger(scope).With("request_id", id)
			ctx := container.WithRegistry(r.Context(), scope)
			ctx = ctxlog.WithLogger(ctx, logger)

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func seed(scope *container.Registry, r *http.Request, id string, setup []ScopeSetup) error {
	if err := container.RegisterInstance(scope, r); err != nil {
		return err
	}
	if err := container.RegisterInstance(scope, id, container.WithTag(gohttp.RequestIDTag)); err != nil {
		return err
	}
	for _, fn := range setup {
		if err := fn(scope, r); err != nil {
			return err
		}
	}
	return nil
}

// requestLogger returns the registered *slog.Logger, or slog.Default when
// the application has none.
func requestLogger(scope *container.Registry) *slog.Logger {
	if !scope.Bound(container.KeyOf[*slog.Logger]("")) {
		return slog.Default()
	}
	logger, err := container.Resolve[*slog.Logger](scope)
	if err != nil {
		return slog.Default()
	}
	return logger
}

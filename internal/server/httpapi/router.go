package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/localmart-users/internal/logging"
	"github.com/dmitrijs2005/localmart-users/internal/server/observability"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIPrefix is the versioned mount point of the account routes.
const APIPrefix = "/api/v1"

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Accounts       Accounts
	Authenticator  Authenticator
	DB             Pinger
	Logger         logging.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	Version        string
	AllowedOrigins []string
}

// NewRouter builds the full handler: account routes at the root and under
// APIPrefix, plus health, metrics and the service banner.
func NewRouter(c RouterConfig) http.Handler {
	h := NewHandlers(c.Accounts, c.Logger, c.Metrics)
	authMW := NewAuthMiddleware(c.Authenticator, c.Logger, c.Metrics)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Handle("/health", NewHealthHandler(c.DB, c.Logger, c.ServiceName, c.Version)).Methods(http.MethodGet)
	r.Handle("/metrics", c.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_ = WriteJSON(w, http.StatusOK, map[string]string{
			"message": "LocalMart Users Service",
			"version": c.Version,
			"service": c.ServiceName,
		})
	}).Methods(http.MethodGet)

	mountAccounts(r.PathPrefix(APIPrefix).Subrouter(), h, authMW)
	mountAccounts(r, h, authMW)

	traced := otelhttp.NewHandler(r, c.ServiceName)

	return Chain(
		RecoveryMiddleware(c.Logger),
		RequestIDMiddleware,
		CORSMiddleware(c.AllowedOrigins),
		LoggingMiddleware(c.Logger, c.Metrics, routeTemplate(r)),
		MaxBytesMiddleware(MaxRequestBodyBytes),
	)(traced)
}

func mountAccounts(r *mux.Router, h *Handlers, authMW *AuthMiddleware) {
	r.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	r.Handle("/users/me", authMW.Handler(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
	r.Handle("/users/me", authMW.Handler(http.HandlerFunc(h.UpdateMe))).Methods(http.MethodPut)
	r.Handle("/users/{id}", authMW.Handler(http.HandlerFunc(h.GetUser))).Methods(http.MethodGet)
}

// unmatchedRoute labels requests no route matched, so scanners probing random
// paths share one series.
const unmatchedRoute = "unmatched"

// routeTemplate labels a request with its matched route pattern so path
// parameters do not explode metric cardinality.
func routeTemplate(r *mux.Router) func(*http.Request) string {
	return func(req *http.Request) string {
		var match mux.RouteMatch
		if r.Match(req, &match) && match.Route != nil {
			if tpl, err := match.Route.GetPathTemplate(); err == nil {
				return tpl
			}
		}
		return unmatchedRoute
	}
}

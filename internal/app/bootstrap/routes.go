// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authapifeature "github.com/larabeck/atelier/internal/app/features/authapi"
	blogapifeature "github.com/larabeck/atelier/internal/app/features/blogapi"
	bookingapifeature "github.com/larabeck/atelier/internal/app/features/bookingapi"
	contentapifeature "github.com/larabeck/atelier/internal/app/features/contentapi"
	healthfeature "github.com/larabeck/atelier/internal/app/features/health"
	pushapifeature "github.com/larabeck/atelier/internal/app/features/pushapi"
	uploadapifeature "github.com/larabeck/atelier/internal/app/features/uploadapi"
	blogstore "github.com/larabeck/atelier/internal/app/store/blog"
	bookingstore "github.com/larabeck/atelier/internal/app/store/booking"
	contentstore "github.com/larabeck/atelier/internal/app/store/content"
	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/store/ratelimit"
	"github.com/larabeck/atelier/internal/app/system/auth"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The API is entirely JSON. Session cookies use SameSite=Strict and the
// admin token travels in a request header, so there is no CSRF middleware
// on this router.
//
// Route layout (static mounts shadow the /api/{collection} wildcard):
//
//	/auth          login, logout, verify
//	/api/blog      public blog reads + admin blog management
//	/api/bookings  public booking create + admin list
//	/api/push      push subscription management
//	/api/uploads   admin file uploads
//	/api           generic portfolio collections (music, art, ...)
//	/health        liveness and readiness probes
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The single-admin credential. A bcrypt hash takes precedence over
	// the plain development password.
	passwordChecker := auth.NewPasswordChecker(appCfg.AdminPassword, appCfg.AdminPasswordHash)

	// Rate limiting for login attempts (nil if disabled)
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	r := chi.NewRouter()

	// Global middleware. CORS must be early in the chain to handle
	// preflight requests.
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Authentication
	authHandler := authapifeature.NewHandler(sessionMgr, passwordChecker, rateLimitStore, logger)
	r.Mount("/auth", authapifeature.Routes(authHandler))

	// Blog (public reads, admin management)
	blogHandler := blogapifeature.NewHandler(blogstore.New(deps.MongoDatabase), logger)
	r.Mount("/api/blog", blogapifeature.Routes(blogHandler, sessionMgr))

	// Bookings (public create with notification fan-out, admin list)
	bookingHandler := bookingapifeature.NewHandler(bookingstore.New(deps.MongoDatabase), deps.Notifier, logger)
	r.Mount("/api/bookings", bookingapifeature.Routes(bookingHandler, sessionMgr))

	// Web Push subscriptions
	pushHandler := pushapifeature.NewHandler(deps.PushSubs, sessionMgr, appCfg.VAPIDPublicKey, pushsub.DefaultMaxIdle, logger)
	r.Mount("/api/push", pushapifeature.Routes(pushHandler))

	// File uploads (admin only)
	uploadHandler := uploadapifeature.NewHandler(deps.FileStorage, logger)
	r.Mount("/api/uploads", uploadapifeature.Routes(uploadHandler, sessionMgr))

	// Generic portfolio collections. Mounted last at /api so the static
	// feature mounts above take precedence over /{collection}.
	contentHandler := contentapifeature.NewHandler(contentstore.New(deps.MongoDatabase), deps.Notifier, logger)
	r.Mount("/api", contentapifeature.Routes(contentHandler, sessionMgr))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(appName, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	// When using local storage, serve files from the configured path
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// JSON 404 for unmatched routes
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "not found")
	})

	return r, nil
}

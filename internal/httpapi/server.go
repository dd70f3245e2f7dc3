package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TheNightmareX/ChaaAt-backend/internal/updates"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	CreateUser(username, password string) (types.User, error)
	GetUser(username string) (types.User, error)
	Authenticate(username, password string) (types.User, error)

	AddFriend(source, target string) (types.Friendship, error)
	ListFriends(user string) []types.Friendship
	RemoveFriend(user string, id int64) error

	CreateChatroom(name, creator string) (types.Chatroom, error)
	ListChatrooms(memberContains string) []types.Chatroom
	Join(roomID int64, user string) (types.Chatroom, error)
	Members(roomID int64) ([]string, error)

	AppendMessage(roomID int64, sender, text string) (types.Message, error)
	ListMessages(user string, fromID, roomID int64) []types.Message
	HasMessages(user string, fromID, roomID int64) bool

	Broker() *updates.Broker
}

// api holds the handler dependencies: the domain service and the session table.
type api struct {
	svc      Service
	sessions *sessionStore
}

// NewMux builds the chi router with all routes and middleware.
func NewMux(svc Service) http.Handler {
	a := &api{svc: svc, sessions: newSessionStore()}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}
	r.Use(MetricsMiddleware)

	// Open endpoints: registration and login.
	r.Post("/users", a.handleRegister)
	r.Post("/auth", a.handleLogin)

	// Everything else requires a session.
	r.Group(func(r chi.Router) {
		r.Use(a.requireAuth)

		r.Get("/auth", a.handleWhoAmI)
		r.Delete("/auth", a.handleLogout)
		r.Get("/users/{username}", a.handleGetUser)

		r.Get("/friends", a.handleListFriends)
		r.Post("/friends", a.handleAddFriend)
		r.Delete("/friends/{id}", a.handleRemoveFriend)

		r.Get("/chatrooms", a.handleListChatrooms)
		r.Post("/chatrooms", a.handleCreateChatroom)
		r.Get("/chatrooms/{id}/members", a.handleListMembers)
		r.Post("/chatrooms/{id}/members", a.handleJoinChatroom)

		r.Get("/messages", a.handleListMessages)
		r.Post("/messages", a.handleCreateMessage)

		r.Get("/updates", a.handleGetUpdates)
		r.Delete("/updates", a.handleClearUpdates)
		r.Get("/updates/ws", a.handleUpdatesWS)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

package realtime

import (
	"net/http"
	"strings"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated HTTP requests to websocket sessions
// and registers them with the hub.
type Handler struct {
	hub         *Hub
	authService *auth.Service
	groupRepo   repository.GroupRepositoryInterface
	upgrader    websocket.Upgrader
	log         *logger.Logger
}

// NewHandler creates a new websocket handler. allowedOrigins restricts
// the Origin header on upgrade; an empty list allows any origin.
func NewHandler(hub *Hub, authService *auth.Service, groupRepo repository.GroupRepositoryInterface, allowedOrigins []string, log *logger.Logger) *Handler {
	return &Handler{
		hub:         hub,
		authService: authService,
		groupRepo:   groupRepo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

// Serve handles GET /ws. The credential comes from the Authorization
// header or, for browser websocket clients that cannot set headers, the
// token query parameter.
func (h *Handler) Serve(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	claims, err := h.authService.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	groups, err := h.groupRepo.GetByUserID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load group subscriptions"})
		return
	}
	groupIDs := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		h.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	session := NewSession(claims.UserID, conn)
	h.hub.Register(session, groupIDs)
	h.log.WithField("user", claims.Email).Info("Websocket session opened")

	go session.writePump()
	go session.readPump(func() {
		h.hub.Unregister(session)
		h.log.WithField("user", claims.Email).Info("Websocket session closed")
	})
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token := strings.TrimPrefix(header, "Bearer "); token != header {
			return token
		}
	}
	return c.Query("token")
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.TrimRight(origin, "/")]
		return ok
	}
}

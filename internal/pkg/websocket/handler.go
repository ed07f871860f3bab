package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
)

// Handler upgrades authenticated requests to academic data event streams
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// HandleConnection godoc
// @Summary Subscribe to academic data events
// @Description Upgrades the connection to a WebSocket that receives academic data creation and publication events. Draft changes are only sent to staff.
// @Tags websocket
// @Security BearerAuth
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /ws/academic-data [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID, ok := c.Get("userID")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	id, _ := userID.(uuid.UUID)

	// Staff callers also receive draft events
	staff := false
	if roles, ok := c.Get("roles"); ok {
		if list, ok := roles.([]models.RoleType); ok {
			for _, r := range list {
				if r.IsStaff() {
					staff = true
				}
			}
		}
	}

	// Upgrade the HTTP connection to a WebSocket connection
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", id.String()).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 32),
		userID: id,
		staff:  staff,
		logger: h.logger,
	}
	// Register before starting the pumps so no event is missed
	if !client.hub.Register(client) {
		h.logger.Warn().Str("userID", id.String()).Msg("Hub stopped, closing new WebSocket connection")
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("userID", id.String()).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

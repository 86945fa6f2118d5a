package handler

import (
	"net/http"

	"houserent-service/internal/middleware"
	"houserent-service/internal/service"
	"houserent-service/pkg/logger"
	"houserent-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BecomeAgentRequest defines the structure for agent registration requests
type BecomeAgentRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=15"`
}

// AgentHandler serves the agent registry endpoints
type AgentHandler struct {
	agents *service.AgentService
}

func NewAgentHandler(agents *service.AgentService) *AgentHandler {
	return &AgentHandler{agents: agents}
}

// Become registers the calling user as an agent. Users with active rents,
// a taken phone number, or an existing agent record are rejected.
func (h *AgentHandler) Become(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}
	email, _ := middleware.EmailFromContext(c)

	var req BecomeAgentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx := c.Request().Context()

	// Active rents disqualify a user from becoming an agent. The check is
	// repeated inside the registration transaction; this one exists to give
	// the user a precise message.
	hasRents, err := h.agents.HasActiveRents(ctx, userID)
	if err != nil {
		log.Error("Failed to check active rents", zap.Error(err))
		return jsonError(c, err)
	}
	if hasRents {
		log.Warn("User with active rents attempted to become an agent", zap.Uint("user_id", userID))
		prometheus.RecordAgentRegistration("rejected")
		return c.JSON(http.StatusConflict, echo.Map{"error": "you should have no rents to become an agent"})
	}

	agent, err := h.agents.Register(ctx, userID, email, req.PhoneNumber)
	if err != nil {
		log.Warn("Agent registration rejected",
			zap.Uint("user_id", userID),
			zap.Error(err))
		prometheus.RecordAgentRegistration("rejected")
		return jsonError(c, err)
	}

	log.Info("Agent registered successfully",
		zap.Uint("agent_id", agent.ID),
		zap.Uint("user_id", userID))
	prometheus.RecordAgentRegistration("success")
	return c.JSON(http.StatusCreated, echo.Map{"agent_id": agent.ID})
}

// Me returns the caller's agent id, or 404 when they are not an agent
func (h *AgentHandler) Me(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	agentID, err := h.agents.AgentID(c.Request().Context(), userID)
	if err != nil {
		log.Warn("Agent lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"agent_id": agentID})
}

package handler

import (
	"net/http"
	"strconv"

	"houserent-service/internal/middleware"
	"houserent-service/internal/model"
	"houserent-service/internal/service"
	"houserent-service/pkg/logger"
	"houserent-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HouseRequest defines the structure for house creation/update requests.
// The length and price bounds mirror the listing form constraints.
type HouseRequest struct {
	Title         string  `json:"title" validate:"required,min=10,max=50"`
	Address       string  `json:"address" validate:"required,min=30,max=150"`
	Description   string  `json:"description" validate:"required,min=50,max=500"`
	ImageURL      string  `json:"image_url" validate:"required,max=200"`
	PricePerMonth float64 `json:"price_per_month" validate:"gte=0,lte=2000"`
	CategoryID    uint    `json:"category_id" validate:"required"`
}

func (r *HouseRequest) fields() model.HouseFields {
	return model.HouseFields{
		Title:         r.Title,
		Address:       r.Address,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		PricePerMonth: r.PricePerMonth,
		CategoryID:    r.CategoryID,
	}
}

// HouseHandler serves the house listing and rental endpoints
type HouseHandler struct {
	houses *service.HouseService
	agents *service.AgentService
}

func NewHouseHandler(houses *service.HouseService, agents *service.AgentService) *HouseHandler {
	return &HouseHandler{houses: houses, agents: agents}
}

// List handles the public listing: filtered, sorted, paginated summaries
// plus the category names for the filter control.
func (h *HouseHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("currentPage"))
	pageSize, _ := strconv.Atoi(c.QueryParam("perPage"))
	query := model.ListQuery{
		Category:   c.QueryParam("category"),
		SearchTerm: c.QueryParam("searchTerm"),
		Sorting:    model.Sorting(c.QueryParam("sorting")),
		Page:       page,
		PageSize:   pageSize,
	}

	log.Info("Listing houses",
		zap.String("category", query.Category),
		zap.String("search_term", query.SearchTerm),
		zap.String("sorting", string(query.Sorting)),
		zap.Int("page", query.Page))

	houses, total, err := h.houses.All(c.Request().Context(), query)
	if err != nil {
		log.Error("Failed to list houses", zap.Error(err))
		return jsonError(c, err)
	}

	names, err := h.houses.CategoryNames(c.Request().Context())
	if err != nil {
		log.Error("Failed to list category names", zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Houses retrieved successfully",
		zap.Int("count", len(houses)),
		zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"houses":      houses,
		"total_count": total,
		"categories":  names,
	})
}

// Latest handles the home listing of the newest houses
func (h *HouseHandler) Latest(c echo.Context) error {
	log := logger.FromContext(c)

	houses, err := h.houses.Latest(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve latest houses", zap.Error(err))
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, houses)
}

// Details handles retrieving a single house with category and agent contact data
func (h *HouseHandler) Details(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	details, err := h.houses.Details(c.Request().Context(), id)
	if err != nil {
		log.Warn("House details not available", zap.Uint("house_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, details)
}

// Mine returns the caller's houses: their listings when they are an agent,
// otherwise the houses they rent.
func (h *HouseHandler) Mine(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	ctx := c.Request().Context()
	isAgent, err := h.agents.Exists(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve agent status", zap.Error(err))
		return jsonError(c, err)
	}

	if isAgent {
		agentID, err := h.agents.AgentID(ctx, userID)
		if err != nil {
			log.Error("Failed to resolve agent id", zap.Error(err))
			return jsonError(c, err)
		}
		houses, err := h.houses.ByAgent(ctx, agentID)
		if err != nil {
			log.Error("Failed to list agent houses", zap.Error(err))
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"role": "agent", "houses": houses})
	}

	houses, err := h.houses.ByRenter(ctx, userID)
	if err != nil {
		log.Error("Failed to list rented houses", zap.Error(err))
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"role": "renter", "houses": houses})
}

// Create handles adding a new house listing. Only agents may create
// listings; field constraint violations are collected and returned together.
func (h *HouseHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	ctx := c.Request().Context()
	isAgent, err := h.agents.Exists(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve agent status", zap.Error(err))
		return jsonError(c, err)
	}
	if !isAgent {
		log.Warn("Non-agent attempted to create a listing", zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only agents may create listings"})
	}

	var req HouseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	errs := map[string]string{}
	if err := c.Validate(&req); err != nil {
		errs = fieldErrors(err)
	}
	if req.CategoryID != 0 {
		exists, err := h.houses.CategoryExists(ctx, req.CategoryID)
		if err != nil {
			log.Error("Failed to check category", zap.Error(err))
			return jsonError(c, err)
		}
		if !exists {
			errs["category_id"] = "category does not exist"
		}
	}
	if len(errs) > 0 {
		log.Warn("House creation rejected by validation", zap.Int("field_errors", len(errs)))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	agentID, err := h.agents.AgentID(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve agent id", zap.Error(err))
		return jsonError(c, err)
	}

	id, err := h.houses.Create(ctx, req.fields(), agentID)
	if err != nil {
		log.Error("Failed to create house", zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("House created successfully",
		zap.Uint("house_id", id),
		zap.Uint("agent_id", agentID),
		zap.String("title", req.Title))
	prometheus.RecordHouseOperation("create")
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles editing an existing house. Only the owning agent may edit.
func (h *HouseHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	ctx := c.Request().Context()
	owns, err := h.houses.HasAgentWithID(ctx, id, userID)
	if err != nil {
		log.Warn("House not found for update", zap.Uint("house_id", id), zap.Error(err))
		return jsonError(c, err)
	}
	if !owns {
		log.Warn("User is not the owning agent",
			zap.Uint("house_id", id),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owning agent may edit this house"})
	}

	var req HouseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	errs := map[string]string{}
	if err := c.Validate(&req); err != nil {
		errs = fieldErrors(err)
	}
	if req.CategoryID != 0 {
		exists, err := h.houses.CategoryExists(ctx, req.CategoryID)
		if err != nil {
			log.Error("Failed to check category", zap.Error(err))
			return jsonError(c, err)
		}
		if !exists {
			errs["category_id"] = "category does not exist"
		}
	}
	if len(errs) > 0 {
		log.Warn("House update rejected by validation", zap.Int("field_errors", len(errs)))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	if err := h.houses.Edit(ctx, id, req.fields()); err != nil {
		log.Error("Failed to update house", zap.Uint("house_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("House updated successfully", zap.Uint("house_id", id))
	prometheus.RecordHouseOperation("update")
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// Delete handles removing a house. Only the owning agent may delete.
func (h *HouseHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	ctx := c.Request().Context()
	owns, err := h.houses.HasAgentWithID(ctx, id, userID)
	if err != nil {
		log.Warn("House not found for deletion", zap.Uint("house_id", id), zap.Error(err))
		return jsonError(c, err)
	}
	if !owns {
		log.Warn("User is not the owning agent",
			zap.Uint("house_id", id),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owning agent may delete this house"})
	}

	if err := h.houses.Delete(ctx, id); err != nil {
		log.Error("Failed to delete house", zap.Uint("house_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("House deleted successfully", zap.Uint("house_id", id))
	prometheus.RecordHouseOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "house deleted successfully"})
}

// Rent handles the available-to-rented transition
func (h *HouseHandler) Rent(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	if err := h.houses.Rent(c.Request().Context(), id, userID); err != nil {
		log.Warn("Rent rejected",
			zap.Uint("house_id", id),
			zap.Uint("user_id", userID),
			zap.Error(err))
		prometheus.RecordRentalOperation("rent", "rejected")
		return jsonError(c, err)
	}

	log.Info("House rented", zap.Uint("house_id", id), zap.Uint("user_id", userID))
	prometheus.RecordRentalOperation("rent", "success")
	return c.JSON(http.StatusOK, echo.Map{"message": "house rented successfully"})
}

// Leave handles the rented-to-available transition
func (h *HouseHandler) Leave(c echo.Context) error {
	log := logger.FromContext(c)
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}

	if err := h.houses.Leave(c.Request().Context(), id, userID); err != nil {
		log.Warn("Leave rejected",
			zap.Uint("house_id", id),
			zap.Uint("user_id", userID),
			zap.Error(err))
		prometheus.RecordRentalOperation("leave", "rejected")
		return jsonError(c, err)
	}

	log.Info("House left", zap.Uint("house_id", id), zap.Uint("user_id", userID))
	prometheus.RecordRentalOperation("leave", "success")
	return c.JSON(http.StatusOK, echo.Map{"message": "house left successfully"})
}

package handler

import (
	"net/http"

	"houserent-service/internal/service"
	"houserent-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryHandler serves the category admin endpoints
type CategoryHandler struct {
	houses *service.HouseService
}

func NewCategoryHandler(houses *service.HouseService) *CategoryHandler {
	return &CategoryHandler{houses: houses}
}

// List retrieves all categories ordered by name
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	categories, err := h.houses.Categories(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve categories", zap.Error(err))
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}

// Create adds a new category; duplicate names conflict
func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	category, err := h.houses.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		log.Warn("Category creation rejected", zap.String("name", req.Name), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// Delete removes a category unless houses still reference it
func (h *CategoryHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	if err := h.houses.DeleteCategory(c.Request().Context(), id); err != nil {
		log.Warn("Category deletion rejected", zap.Uint("category_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Category deleted successfully", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"houserent-service/internal/model"
	"houserent-service/internal/repository"
	"houserent-service/internal/service"
	"houserent-service/internal/testutil"
	"houserent-service/pkg/config"
	"houserent-service/prometheus"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "test"},
	})
	os.Exit(m.Run())
}

type fixture struct {
	echo     *echo.Echo
	houses   *HouseHandler
	category *CategoryHandler
	agent    *AgentHandler
	db       *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	houseRepo := repository.NewHouseRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	agentRepo := repository.NewAgentRepo(db)

	houseService := service.NewHouseService(houseRepo, categoryRepo, agentRepo, 3, 100)
	agentService := service.NewAgentService(agentRepo, houseRepo)

	e := echo.New()
	e.Validator = NewValidator()

	return &fixture{
		echo:     e,
		houses:   NewHouseHandler(houseService, agentService),
		category: NewCategoryHandler(houseService),
		agent:    NewAgentHandler(agentService),
		db:       db,
	}
}

// request builds an echo context the way the middleware chain would,
// optionally carrying an authenticated user identity.
func (f *fixture) request(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("email", "user@example.com")
	}
	return c, rec
}

func (f *fixture) seedCategory(t *testing.T, name string) model.Category {
	t.Helper()
	c := model.Category{Name: name}
	if err := f.db.Create(&c).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return c
}

func (f *fixture) seedAgent(t *testing.T, userID uint, phone string) model.Agent {
	t.Helper()
	a := model.Agent{UserID: userID, Email: "agent@example.com", PhoneNumber: phone}
	if err := f.db.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed agent: %v", err)
	}
	return a
}

func (f *fixture) seedHouse(t *testing.T, categoryID, agentID uint, renterID *uint) model.House {
	t.Helper()
	h := model.House{
		Title:         "Comfortable family house",
		Address:       "12 Riverside Road, Springfield, Illinois",
		Description:   "A spacious family house close to schools, parks and public transport.",
		ImageURL:      "https://example.com/house.jpg",
		PricePerMonth: 600,
		CategoryID:    categoryID,
		AgentID:       agentID,
		RenterID:      renterID,
	}
	if err := f.db.Create(&h).Error; err != nil {
		t.Fatalf("failed to seed house: %v", err)
	}
	return h
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestHouseHandlerList(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	agent := f.seedAgent(t, 1, "+359111222333")
	for i := 0; i < 4; i++ {
		f.seedHouse(t, category.ID, agent.ID, nil)
	}

	c, rec := f.request(http.MethodGet, "/api/houses?sorting=newest&currentPage=1&perPage=3", "", 0)
	if err := f.houses.List(c); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if got := body["total_count"].(float64); got != 4 {
		t.Errorf("expected total_count 4, got %v", got)
	}
	if houses := body["houses"].([]interface{}); len(houses) != 3 {
		t.Errorf("expected 3 houses on page, got %d", len(houses))
	}
	if categories := body["categories"].([]interface{}); len(categories) != 1 {
		t.Errorf("expected 1 category name, got %d", len(categories))
	}

	t.Run("unknown sorting value still lists", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/api/houses?sorting=garbage", "", 0)
		if err := f.houses.List(c); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if got := body["total_count"].(float64); got != 4 {
			t.Errorf("expected total_count 4, got %v", got)
		}
	})
}

func TestHouseHandlerDetails(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	agent := f.seedAgent(t, 1, "+359111222333")
	house := f.seedHouse(t, category.ID, agent.ID, nil)

	t.Run("found", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/", "", 0)
		c.SetPath("/api/houses/:id")
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(house.ID)))

		if err := f.houses.Details(c); err != nil {
			t.Fatalf("Details failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["category"] != "Apartment" {
			t.Errorf("expected category Apartment, got %v", body["category"])
		}
		if body["agent_phone"] != agent.PhoneNumber {
			t.Errorf("expected agent phone %q, got %v", agent.PhoneNumber, body["agent_phone"])
		}
	})

	t.Run("missing house is 404", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/", "", 0)
		c.SetPath("/api/houses/:id")
		c.SetParamNames("id")
		c.SetParamValues("9999")

		if err := f.houses.Details(c); err != nil {
			t.Fatalf("Details failed: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("bad id is 400", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/", "", 0)
		c.SetPath("/api/houses/:id")
		c.SetParamNames("id")
		c.SetParamValues("not-a-number")

		if err := f.houses.Details(c); err != nil {
			t.Fatalf("Details failed: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHouseHandlerCreate(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	f.seedAgent(t, 1, "+359111222333")

	validBody := `{
		"title": "Sunny two bedroom flat",
		"address": "18 Victory Boulevard, Springfield, Illinois",
		"description": "A sunny two bedroom flat with a renovated kitchen and lake views from the balcony.",
		"image_url": "https://example.com/flat.jpg",
		"price_per_month": 850,
		"category_id": ` + strconv.Itoa(int(category.ID)) + `}`

	t.Run("non-agent is forbidden", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/houses", validBody, 2)
		if err := f.houses.Create(c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("field errors are collected", func(t *testing.T) {
		body := `{"title": "short", "address": "short", "description": "short", "image_url": "", "price_per_month": 9000, "category_id": 9999}`
		c, rec := f.request(http.MethodPost, "/api/houses", body, 1)
		if err := f.houses.Create(c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		for _, field := range []string{"title", "address", "description", "image_url", "price_per_month", "category_id"} {
			if _, ok := errs[field]; !ok {
				t.Errorf("expected a validation error for %q, got %v", field, errs)
			}
		}
	})

	t.Run("valid request creates the house", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/houses", validBody, 1)
		if err := f.houses.Create(c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if id := decodeBody(t, rec)["id"].(float64); id == 0 {
			t.Error("expected a non-zero house id")
		}
	})
}

func TestHouseHandlerRentAndLeave(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	agent := f.seedAgent(t, 1, "+359111222333")
	house := f.seedHouse(t, category.ID, agent.ID, nil)

	rent := func(userID uint) *httptest.ResponseRecorder {
		c, rec := f.request(http.MethodPost, "/", "", userID)
		c.SetPath("/api/houses/:id/rent")
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(house.ID)))
		if err := f.houses.Rent(c); err != nil {
			t.Fatalf("Rent failed: %v", err)
		}
		return rec
	}
	leave := func(userID uint) *httptest.ResponseRecorder {
		c, rec := f.request(http.MethodPost, "/", "", userID)
		c.SetPath("/api/houses/:id/leave")
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(house.ID)))
		if err := f.houses.Leave(c); err != nil {
			t.Fatalf("Leave failed: %v", err)
		}
		return rec
	}

	if rec := rent(5); rec.Code != http.StatusOK {
		t.Fatalf("expected rent to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := rent(6); rec.Code != http.StatusConflict {
		t.Errorf("expected second rent to be 409, got %d", rec.Code)
	}
	if rec := leave(6); rec.Code != http.StatusForbidden {
		t.Errorf("expected leave by non-renter to be 403, got %d", rec.Code)
	}
	if rec := leave(5); rec.Code != http.StatusOK {
		t.Errorf("expected leave by renter to succeed, got %d", rec.Code)
	}
	// Agent cannot rent the now-available house.
	if rec := rent(1); rec.Code != http.StatusForbidden {
		t.Errorf("expected rent by agent to be 403, got %d", rec.Code)
	}
}

func TestHouseHandlerMine(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	agent := f.seedAgent(t, 1, "+359111222333")
	f.seedHouse(t, category.ID, agent.ID, nil)
	f.seedHouse(t, category.ID, agent.ID, testutil.UintPtr(5))

	t.Run("agent sees own listings", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/api/houses/mine", "", 1)
		if err := f.houses.Mine(c); err != nil {
			t.Fatalf("Mine failed: %v", err)
		}
		body := decodeBody(t, rec)
		if body["role"] != "agent" {
			t.Errorf("expected role agent, got %v", body["role"])
		}
		if houses := body["houses"].([]interface{}); len(houses) != 2 {
			t.Errorf("expected 2 houses, got %d", len(houses))
		}
	})

	t.Run("renter sees rented houses", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/api/houses/mine", "", 5)
		if err := f.houses.Mine(c); err != nil {
			t.Fatalf("Mine failed: %v", err)
		}
		body := decodeBody(t, rec)
		if body["role"] != "renter" {
			t.Errorf("expected role renter, got %v", body["role"])
		}
		if houses := body["houses"].([]interface{}); len(houses) != 1 {
			t.Errorf("expected 1 house, got %d", len(houses))
		}
	})
}

func TestHouseHandlerUpdateAuthorization(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	owner := f.seedAgent(t, 1, "+359111222333")
	f.seedAgent(t, 2, "+359444555666")
	house := f.seedHouse(t, category.ID, owner.ID, nil)

	body := `{
		"title": "Renovated two bedroom flat",
		"address": "18 Victory Boulevard, Springfield, Illinois",
		"description": "A sunny two bedroom flat with a renovated kitchen and lake views from the balcony.",
		"image_url": "https://example.com/flat.jpg",
		"price_per_month": 900,
		"category_id": ` + strconv.Itoa(int(category.ID)) + `}`

	update := func(userID uint, houseID string) *httptest.ResponseRecorder {
		c, rec := f.request(http.MethodPut, "/", body, userID)
		c.SetPath("/api/houses/:id")
		c.SetParamNames("id")
		c.SetParamValues(houseID)
		if err := f.houses.Update(c); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		return rec
	}

	if rec := update(2, strconv.Itoa(int(house.ID))); rec.Code != http.StatusForbidden {
		t.Errorf("expected non-owner update to be 403, got %d", rec.Code)
	}
	if rec := update(1, "9999"); rec.Code != http.StatusNotFound {
		t.Errorf("expected update of missing house to be 404, got %d", rec.Code)
	}
	if rec := update(1, strconv.Itoa(int(house.ID))); rec.Code != http.StatusOK {
		t.Errorf("expected owner update to succeed, got %d", rec.Code)
	}

	var got model.House
	if err := f.db.First(&got, house.ID).Error; err != nil {
		t.Fatalf("failed to reload house: %v", err)
	}
	if got.Title != "Renovated two bedroom flat" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
}

package handler

import (
	"net/http"
	"testing"

	"houserent-service/internal/testutil"
)

func TestAgentHandlerBecome(t *testing.T) {
	f := newFixture(t)
	category := f.seedCategory(t, "Apartment")
	owner := f.seedAgent(t, 1, "+359111222333")

	t.Run("registers the caller", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/agents", `{"phone_number": "+359444555666"}`, 2)
		if err := f.agent.Become(c); err != nil {
			t.Fatalf("Become failed: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if agentID := decodeBody(t, rec)["agent_id"].(float64); agentID == 0 {
			t.Error("expected a non-zero agent id")
		}
	})

	t.Run("invalid phone is a field error", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/agents", `{"phone_number": "123"}`, 3)
		if err := f.agent.Become(c); err != nil {
			t.Fatalf("Become failed: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		if _, ok := errs["phone_number"]; !ok {
			t.Errorf("expected a validation error for phone_number, got %v", errs)
		}
	})

	t.Run("taken phone is a conflict", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/agents", `{"phone_number": "+359111222333"}`, 3)
		if err := f.agent.Become(c); err != nil {
			t.Fatalf("Become failed: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("existing agent is a conflict", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/agents", `{"phone_number": "+359777888999"}`, 1)
		if err := f.agent.Become(c); err != nil {
			t.Fatalf("Become failed: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("renter with active rents is a conflict", func(t *testing.T) {
		f.seedHouse(t, category.ID, owner.ID, testutil.UintPtr(4))

		c, rec := f.request(http.MethodPost, "/api/agents", `{"phone_number": "+359666555444"}`, 4)
		if err := f.agent.Become(c); err != nil {
			t.Fatalf("Become failed: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})
}

func TestAgentHandlerMe(t *testing.T) {
	f := newFixture(t)
	agent := f.seedAgent(t, 1, "+359111222333")

	t.Run("agent id for registered agent", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/api/agents/me", "", 1)
		if err := f.agent.Me(c); err != nil {
			t.Fatalf("Me failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := decodeBody(t, rec)["agent_id"].(float64); uint(got) != agent.ID {
			t.Errorf("expected agent id %d, got %v", agent.ID, got)
		}
	})

	t.Run("404 for non-agent", func(t *testing.T) {
		c, rec := f.request(http.MethodGet, "/api/agents/me", "", 2)
		if err := f.agent.Me(c); err != nil {
			t.Fatalf("Me failed: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler(t *testing.T) {
	f := newFixture(t)

	t.Run("create and list", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/categories", `{"name": "Apartment"}`, 1)
		if err := f.category.Create(c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}

		c, rec = f.request(http.MethodGet, "/api/categories", "", 0)
		if err := f.category.List(c); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		c, rec := f.request(http.MethodPost, "/api/categories", `{"name": "Apartment"}`, 1)
		if err := f.category.Create(c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})
}

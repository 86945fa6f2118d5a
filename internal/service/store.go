package service

import (
	"context"

	"houserent-service/internal/model"
)

// Per-entity storage contracts consumed by the services. The GORM
// implementations live in internal/repository; tests may substitute any
// other implementation.

// HouseStore is the storage contract for house listings.
type HouseStore interface {
	List(ctx context.Context, q model.ListQuery) ([]model.HouseSummary, int64, error)
	Latest(ctx context.Context, n int) ([]model.HouseSummary, error)
	ByID(ctx context.Context, id uint) (*model.House, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ByAgent(ctx context.Context, agentID uint) ([]model.House, error)
	ByRenter(ctx context.Context, userID uint) ([]model.House, error)
	Details(ctx context.Context, id uint) (*model.HouseDetails, error)
	Create(ctx context.Context, h *model.House) error
	UpdateFields(ctx context.Context, id uint, f model.HouseFields) error
	Delete(ctx context.Context, id uint) error
	SetRenter(ctx context.Context, houseID, userID uint) (bool, error)
	ClearRenter(ctx context.Context, houseID, userID uint) (bool, error)
	AnyRentedBy(ctx context.Context, userID uint) (bool, error)
}

// CategoryStore is the storage contract for house categories.
type CategoryStore interface {
	All(ctx context.Context) ([]model.Category, error)
	Names(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uint) error
}

// AgentStore is the storage contract for agent records.
type AgentStore interface {
	ByUserID(ctx context.Context, userID uint) (*model.Agent, error)
	ByID(ctx context.Context, id uint) (*model.Agent, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
	Register(ctx context.Context, a *model.Agent) error
}

package service

import (
	"context"
	"errors"
	"fmt"

	"houserent-service/internal/model"
	"houserent-service/prometheus"
)

// latestCount is how many houses the home listing shows.
const latestCount = 3

// HouseService implements the listing queries and the rental workflow
// over the per-entity stores.
type HouseService struct {
	houses     HouseStore
	categories CategoryStore
	agents     AgentStore

	defaultPageSize int
	maxPageSize     int
}

func NewHouseService(houses HouseStore, categories CategoryStore, agents AgentStore,
	defaultPageSize, maxPageSize int) *HouseService {
	if defaultPageSize < 1 {
		defaultPageSize = latestCount
	}
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &HouseService{
		houses:          houses,
		categories:      categories,
		agents:          agents,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// All returns one page of filtered house summaries and the total size of
// the filtered set. Page and page size are clamped so an out-of-range
// request never turns into an invalid offset.
func (s *HouseService) All(ctx context.Context, q model.ListQuery) ([]model.HouseSummary, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = s.defaultPageSize
	}
	if q.PageSize > s.maxPageSize {
		q.PageSize = s.maxPageSize
	}
	q.Sorting = model.ParseSorting(string(q.Sorting))
	prometheus.RecordListingSearch(string(q.Sorting))

	items, total, err := s.houses.List(ctx, q)
	return items, total, translate(err)
}

// Latest returns the newest houses for the home listing.
func (s *HouseService) Latest(ctx context.Context) ([]model.HouseSummary, error) {
	items, err := s.houses.Latest(ctx, latestCount)
	return items, translate(err)
}

// Categories returns all categories ordered by name.
func (s *HouseService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.All(ctx)
	return categories, translate(err)
}

// CategoryNames returns the distinct category names.
func (s *HouseService) CategoryNames(ctx context.Context) ([]string, error) {
	names, err := s.categories.Names(ctx)
	return names, translate(err)
}

func (s *HouseService) CategoryExists(ctx context.Context, id uint) (bool, error) {
	ok, err := s.categories.Exists(ctx, id)
	return ok, translate(err)
}

// CreateCategory adds a new category; a duplicate name is a conflict.
func (s *HouseService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	category := model.Category{Name: name}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// DeleteCategory removes a category; a category still referenced by houses
// is a conflict.
func (s *HouseService) DeleteCategory(ctx context.Context, id uint) error {
	return translate(s.categories.Delete(ctx, id))
}

// ByAgent returns the summaries of all houses owned by the agent.
func (s *HouseService) ByAgent(ctx context.Context, agentID uint) ([]model.HouseSummary, error) {
	houses, err := s.houses.ByAgent(ctx, agentID)
	if err != nil {
		return nil, translate(err)
	}
	return summarize(houses), nil
}

// ByRenter returns the summaries of all houses the user currently rents.
func (s *HouseService) ByRenter(ctx context.Context, userID uint) ([]model.HouseSummary, error) {
	houses, err := s.houses.ByRenter(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return summarize(houses), nil
}

func summarize(houses []model.House) []model.HouseSummary {
	summaries := make([]model.HouseSummary, 0, len(houses))
	for _, h := range houses {
		summaries = append(summaries, model.SummaryOf(h))
	}
	return summaries
}

func (s *HouseService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := s.houses.Exists(ctx, id)
	return ok, translate(err)
}

// Details returns the detail projection of a house. The storage layer
// reports absence as an empty result; here it becomes ErrNotFound.
func (s *HouseService) Details(ctx context.Context, id uint) (*model.HouseDetails, error) {
	details, err := s.houses.Details(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if details == nil {
		return nil, ErrNotFound
	}
	return details, nil
}

// CategoryIDOf returns the category id of a house.
func (s *HouseService) CategoryIDOf(ctx context.Context, houseID uint) (uint, error) {
	h, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return 0, translate(err)
	}
	return h.CategoryID, nil
}

// Create adds a new house listing owned by the agent and returns its id.
func (s *HouseService) Create(ctx context.Context, f model.HouseFields, agentID uint) (uint, error) {
	house := model.House{
		Title:         f.Title,
		Address:       f.Address,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		PricePerMonth: f.PricePerMonth,
		CategoryID:    f.CategoryID,
		AgentID:       agentID,
	}
	if err := s.houses.Create(ctx, &house); err != nil {
		return 0, translate(err)
	}
	return house.ID, nil
}

// Edit updates the mutable fields of a house. The write is restricted to
// the listing columns, so an edit cannot revert a rent that lands while
// the form is open.
func (s *HouseService) Edit(ctx context.Context, id uint, f model.HouseFields) error {
	return translate(s.houses.UpdateFields(ctx, id, f))
}

// Delete removes a house listing.
func (s *HouseService) Delete(ctx context.Context, id uint) error {
	return translate(s.houses.Delete(ctx, id))
}

// HasAgentWithID reports whether the house's owning agent belongs to the
// given user. It gates edit and delete at the boundary.
func (s *HouseService) HasAgentWithID(ctx context.Context, houseID, userID uint) (bool, error) {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return false, translate(err)
	}

	agent, err := s.agents.ByID(ctx, house.AgentID)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return false, nil
		}
		return false, translate(err)
	}

	return agent.UserID == userID, nil
}

// IsRented reports whether the house currently has a renter.
func (s *HouseService) IsRented(ctx context.Context, houseID uint) (bool, error) {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return false, translate(err)
	}
	return house.IsRented(), nil
}

// IsRentedBy reports whether the house is currently rented by exactly
// this user.
func (s *HouseService) IsRentedBy(ctx context.Context, houseID, userID uint) (bool, error) {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return false, translate(err)
	}
	return house.RenterID != nil && *house.RenterID == userID, nil
}

// Rent transitions an available house to rented by the given user. Agents
// may not rent houses. The final write is conditional on the house still
// being available, so two near-simultaneous renters cannot both succeed.
func (s *HouseService) Rent(ctx context.Context, houseID, userID uint) error {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return translate(err)
	}

	isAgent, err := s.agents.UserExists(ctx, userID)
	if err != nil {
		return translate(err)
	}
	if isAgent {
		return fmt.Errorf("%w: agents may not rent houses", ErrUnauthorized)
	}

	if house.IsRented() {
		return fmt.Errorf("%w: house is already rented", ErrConflict)
	}

	swapped, err := s.houses.SetRenter(ctx, houseID, userID)
	if err != nil {
		return translate(err)
	}
	if !swapped {
		return fmt.Errorf("%w: house is already rented", ErrConflict)
	}
	return nil
}

// Leave transitions a rented house back to available. Only the current
// renter may leave; leaving an available house is refused.
func (s *HouseService) Leave(ctx context.Context, houseID, userID uint) error {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		return translate(err)
	}

	if !house.IsRented() {
		return fmt.Errorf("%w: house is not rented", ErrConflict)
	}
	if *house.RenterID != userID {
		return fmt.Errorf("%w: house is rented by another user", ErrUnauthorized)
	}

	swapped, err := s.houses.ClearRenter(ctx, houseID, userID)
	if err != nil {
		return translate(err)
	}
	if !swapped {
		return fmt.Errorf("%w: house is no longer rented by this user", ErrConflict)
	}
	return nil
}

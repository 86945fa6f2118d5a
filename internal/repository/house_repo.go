package repository

import (
	"context"
	"strings"
	"time"

	"houserent-service/internal/model"
	"houserent-service/prometheus"

	"gorm.io/gorm"
)

// HouseRepo provides storage access to house listings
type HouseRepo struct {
	db *gorm.DB
}

func NewHouseRepo(db *gorm.DB) *HouseRepo {
	return &HouseRepo{db: db}
}

func (r *HouseRepo) Migrate() error {
	return r.db.AutoMigrate(&model.House{})
}

// filtered builds a fresh query with the listing filters applied. Category
// matches the category name exactly; the search term is a case-insensitive
// substring match over title, address and description.
func (r *HouseRepo) filtered(ctx context.Context, q model.ListQuery) *gorm.DB {
	qb := r.db.WithContext(ctx).Model(&model.House{})
	if q.Category != "" {
		qb = qb.Joins("JOIN categories ON categories.id = houses.category_id").
			Where("categories.name = ?", q.Category)
	}
	if q.SearchTerm != "" {
		term := "%" + strings.ToLower(q.SearchTerm) + "%"
		qb = qb.Where("LOWER(title) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?",
			term, term, term)
	}
	return qb
}

// List returns one page of filtered house summaries together with the total
// count of the filtered set before pagination.
func (r *HouseRepo) List(ctx context.Context, q model.ListQuery) ([]model.HouseSummary, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	qb := r.filtered(ctx, q)
	switch q.Sorting {
	case model.SortPrice:
		qb = qb.Order("price_per_month ASC")
	case model.SortNotRentedFirst:
		qb = qb.Order("renter_id IS NOT NULL, id DESC")
	default:
		qb = qb.Order("id DESC")
	}

	var houses []model.House
	err := qb.Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).Find(&houses).Error
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]model.HouseSummary, 0, len(houses))
	for _, h := range houses {
		summaries = append(summaries, model.SummaryOf(h))
	}
	return summaries, total, nil
}

// Latest returns the n newest house summaries.
func (r *HouseRepo) Latest(ctx context.Context, n int) ([]model.HouseSummary, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var houses []model.House
	err := r.db.WithContext(ctx).Order("id DESC").Limit(n).Find(&houses).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]model.HouseSummary, 0, len(houses))
	for _, h := range houses {
		summaries = append(summaries, model.SummaryOf(h))
	}
	return summaries, nil
}

func (r *HouseRepo) ByID(ctx context.Context, id uint) (*model.House, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var h model.House
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HouseRepo) Exists(ctx context.Context, id uint) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.House{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *HouseRepo) ByAgent(ctx context.Context, agentID uint) ([]model.House, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var houses []model.House
	err := r.db.WithContext(ctx).Where("agent_id = ?", agentID).Find(&houses).Error
	return houses, err
}

func (r *HouseRepo) ByRenter(ctx context.Context, userID uint) ([]model.House, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var houses []model.House
	err := r.db.WithContext(ctx).Where("renter_id = ?", userID).Find(&houses).Error
	return houses, err
}

// Details joins the house with its category name and the owning agent's
// contact data. A missing house yields (nil, nil); the caller decides how
// to surface absence.
func (r *HouseRepo) Details(ctx context.Context, id uint) (*model.HouseDetails, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var h model.House
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, h.CategoryID).Error; err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var agent model.Agent
	if err := r.db.WithContext(ctx).First(&agent, h.AgentID).Error; err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return &model.HouseDetails{
		ID:            h.ID,
		Title:         h.Title,
		Address:       h.Address,
		Description:   h.Description,
		ImageURL:      h.ImageURL,
		PricePerMonth: h.PricePerMonth,
		IsRented:      h.IsRented(),
		Category:      category.Name,
		AgentPhone:    agent.PhoneNumber,
		AgentEmail:    agent.Email,
	}, nil
}

func (r *HouseRepo) Create(ctx context.Context, h *model.House) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Create(h).Error
}

// UpdateFields writes the listing columns of a house. The renter column is
// left out of the update so an edit cannot revert a rent that commits
// between the caller's read and this write.
func (r *HouseRepo) UpdateFields(ctx context.Context, id uint, f model.HouseFields) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.House{}).
		Where("id = ?", id).
		Select("title", "address", "description", "image_url", "price_per_month", "category_id").
		Updates(model.House{
			Title:         f.Title,
			Address:       f.Address,
			Description:   f.Description,
			ImageURL:      f.ImageURL,
			PricePerMonth: f.PricePerMonth,
			CategoryID:    f.CategoryID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *HouseRepo) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(&model.House{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetRenter marks the house as rented by the given user. The predicate on
// renter_id makes the transition a compare-and-swap: a concurrent rent that
// commits first leaves nothing to update here, so the caller can tell a
// lost race from a success by the returned flag.
func (r *HouseRepo) SetRenter(ctx context.Context, houseID, userID uint) (bool, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.House{}).
		Where("id = ? AND renter_id IS NULL", houseID).
		Update("renter_id", userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearRenter is the symmetric transition back to available; it only fires
// when the house is currently rented by exactly this user.
func (r *HouseRepo) ClearRenter(ctx context.Context, houseID, userID uint) (bool, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.House{}).
		Where("id = ? AND renter_id = ?", houseID, userID).
		Update("renter_id", nil)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *HouseRepo) AnyRentedBy(ctx context.Context, userID uint) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.House{}).Where("renter_id = ?", userID).Count(&count).Error
	return count > 0, err
}

package repository

import (
	"context"
	"errors"
	"time"

	"houserent-service/internal/model"
	"houserent-service/prometheus"

	"gorm.io/gorm"
)

// ErrUserHasRents is returned when a user with active rents tries to register as an agent.
var ErrUserHasRents = errors.New("user has active rents")

// AgentRepo provides storage access to agent records
type AgentRepo struct {
	db *gorm.DB
}

func NewAgentRepo(db *gorm.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

func (r *AgentRepo) Migrate() error {
	return r.db.AutoMigrate(&model.Agent{})
}

func (r *AgentRepo) ByUserID(ctx context.Context, userID uint) (*model.Agent, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var a model.Agent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepo) ByID(ctx context.Context, id uint) (*model.Agent, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var a model.Agent
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Agent{}).Where("phone_number = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *AgentRepo) UserExists(ctx context.Context, userID uint) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Agent{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Register inserts the agent record atomically with its eligibility check:
// a user who currently rents a house may not become an agent, and the
// unique indexes on user_id and phone_number reject duplicates at commit
// time regardless of what any earlier read saw.
func (r *AgentRepo) Register(ctx context.Context, a *model.Agent) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rents int64
		if err := tx.Model(&model.House{}).Where("renter_id = ?", a.UserID).Count(&rents).Error; err != nil {
			return err
		}
		if rents > 0 {
			return ErrUserHasRents
		}

		return tx.Create(a).Error
	})
}

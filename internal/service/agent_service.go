package service

import (
	"context"
	"fmt"

	"houserent-service/internal/model"
)

// AgentService implements the agent registry: who is an agent, which
// phone numbers are taken, and registration with its eligibility rules.
type AgentService struct {
	agents AgentStore
	houses HouseStore
}

func NewAgentService(agents AgentStore, houses HouseStore) *AgentService {
	return &AgentService{agents: agents, houses: houses}
}

// Exists reports whether the user already has an agent record.
func (s *AgentService) Exists(ctx context.Context, userID uint) (bool, error) {
	ok, err := s.agents.UserExists(ctx, userID)
	return ok, translate(err)
}

// PhoneTaken reports whether any agent already uses the phone number.
func (s *AgentService) PhoneTaken(ctx context.Context, phone string) (bool, error) {
	ok, err := s.agents.PhoneExists(ctx, phone)
	return ok, translate(err)
}

// HasActiveRents reports whether the user currently rents any house.
func (s *AgentService) HasActiveRents(ctx context.Context, userID uint) (bool, error) {
	ok, err := s.houses.AnyRentedBy(ctx, userID)
	return ok, translate(err)
}

// AgentID returns the agent id for the user, or ErrNotFound.
func (s *AgentService) AgentID(ctx context.Context, userID uint) (uint, error) {
	agent, err := s.agents.ByUserID(ctx, userID)
	if err != nil {
		return 0, translate(err)
	}
	return agent.ID, nil
}

// Register creates an agent record for the user. A second registration, a
// taken phone number, or active rents are conflicts. The up-front checks
// reject the common cases before any write; the store's transactional
// insert and unique constraints close the remaining race.
func (s *AgentService) Register(ctx context.Context, userID uint, email, phone string) (*model.Agent, error) {
	exists, err := s.agents.UserExists(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user is already an agent", ErrConflict)
	}

	taken, err := s.agents.PhoneExists(ctx, phone)
	if err != nil {
		return nil, translate(err)
	}
	if taken {
		return nil, fmt.Errorf("%w: phone number is already in use", ErrConflict)
	}

	agent := model.Agent{
		UserID:      userID,
		Email:       email,
		PhoneNumber: phone,
	}
	if err := s.agents.Register(ctx, &agent); err != nil {
		return nil, translate(err)
	}
	return &agent, nil
}

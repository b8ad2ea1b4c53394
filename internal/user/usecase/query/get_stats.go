package query

import (
	"context"
	"fmt"

	"github.com/tair/restaurant-backend/internal/user/domain"
)

// GetStatsQuery represents the query to get user statistics (admin only)
type GetStatsQuery struct{}

// UserStats represents user statistics
type UserStats struct {
	TotalUsers  int64            `json:"total_users"`
	ActiveUsers int64            `json:"active_users"`
	ByRole      map[string]int64 `json:"by_role"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*UserStats, error) {
	byRole, err := h.repo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	active, err := h.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	var total int64
	for _, n := range byRole {
		total += n
	}

	return &UserStats{
		TotalUsers:  total,
		ActiveUsers: active,
		ByRole:      byRole,
	}, nil
}

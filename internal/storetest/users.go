package storetest

import (
	"context"
	"sort"

	"github.com/tair/restaurant-backend/internal/apperror"
	userdomain "github.com/tair/restaurant-backend/internal/user/domain"
)

// UserRepository is an in-memory userdomain.UserRepository
type UserRepository struct {
	s *Store
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *userdomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Username == user.Username {
			return apperror.Conflict("user conflicts with an existing record")
		}
	}
	user.ID = r.s.nextID()
	r.s.stamp(&user.CreatedAt, &user.UpdatedAt)
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *userdomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	r.s.stamp(&user.CreatedAt, &user.UpdatedAt)
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*userdomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*userdomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r *UserRepository) FindAll(_ context.Context, limit, offset int) ([]userdomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]userdomain.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []userdomain.User{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *UserRepository) CountByRole(_ context.Context) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for _, u := range r.s.data.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (r *UserRepository) CountActive(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.data.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

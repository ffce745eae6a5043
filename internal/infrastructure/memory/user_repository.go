package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

// UserRepository keeps users in a map. Values are copied in and out so
// callers never alias stored state.
type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]entity.User)}
}

func cloneUser(u entity.User) *entity.User {
	if u.ProfilePictureID != nil {
		id := *u.ProfilePictureID
		u.ProfilePictureID = &id
	}
	if u.ActivePortfolioID != nil {
		id := *u.ActivePortfolioID
		u.ActivePortfolioID = &id
	}
	return &u
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Username == u.Username {
			return &repository.DuplicateError{Field: "username"}
		}
		if other.Email == u.Email {
			return &repository.DuplicateError{Field: "email"}
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByLogin(_ context.Context, login string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == login || u.Email == login })
}

// modify applies fn to every user matching match and counts the changes.
func (r *UserRepository) modify(match func(entity.User) bool, fn func(*entity.User)) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, u := range r.users {
		if !match(u) {
			continue
		}
		fn(&u)
		u.UpdatedAt = time.Now().UTC()
		r.users[id] = u
		n++
	}
	return n
}

func (r *UserRepository) UpdateProfilePicture(_ context.Context, id, pictureID primitive.ObjectID) (int64, error) {
	return r.modify(func(u entity.User) bool { return u.ID == id }, func(u *entity.User) {
		u.ProfilePictureID = &pictureID
	}), nil
}

func (r *UserRepository) SetActivePortfolio(_ context.Context, id, portfolioID primitive.ObjectID) (int64, error) {
	return r.modify(func(u entity.User) bool { return u.ID == id }, func(u *entity.User) {
		u.ActivePortfolioID = &portfolioID
	}), nil
}

func (r *UserRepository) SetActivePortfolioIfUnset(_ context.Context, id, portfolioID primitive.ObjectID) (int64, error) {
	return r.modify(func(u entity.User) bool { return u.ID == id && u.ActivePortfolioID == nil }, func(u *entity.User) {
		u.ActivePortfolioID = &portfolioID
	}), nil
}

func (r *UserRepository) ClearActivePortfolio(_ context.Context, portfolioID primitive.ObjectID) (int64, error) {
	return r.modify(func(u entity.User) bool {
		return u.ActivePortfolioID != nil && *u.ActivePortfolioID == portfolioID
	}, func(u *entity.User) {
		u.ActivePortfolioID = nil
	}), nil
}

func (r *UserRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

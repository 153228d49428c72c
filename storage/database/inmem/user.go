package inmemdb

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

// UserRepository is a mutex-guarded in-memory user.Repository for tests and
// local runs without a database.
type UserRepository struct {
	mutex sync.RWMutex
	users []user.User
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repo *UserRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, usr := range repo.users {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	usr.ID = primitive.NewObjectID().Hex()
	repo.users = append(repo.users, usr)
	return usr, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, usr := range repo.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, usr := range repo.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for i := range repo.users {
		if repo.users[i].ID == usr.ID {
			repo.users[i] = usr
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

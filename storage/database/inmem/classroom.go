package inmemdb

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
)

// ClassroomRepository is a mutex-guarded in-memory classroom.Repository.
// Slices preserve insertion order the way a database cursor would.
type ClassroomRepository struct {
	mutex sync.RWMutex
	rooms []classroom.Classroom
	posts []classroom.Post
	joins []classroom.JoinRequest
}

var _ classroom.Repository = (*ClassroomRepository)(nil)

func NewClassroomRepository() *ClassroomRepository {
	return &ClassroomRepository{}
}

func (repo *ClassroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	room.ID = primitive.NewObjectID().Hex()
	repo.rooms = append(repo.rooms, room)
	return room, nil
}

func (repo *ClassroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, room := range repo.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *ClassroomRepository) FilterClassroomsByOwner(ctx context.Context, ownerID string) ([]classroom.Classroom, error) {
	return repo.filter(func(room classroom.Classroom) bool { return room.Owner == ownerID })
}

func (repo *ClassroomRepository) FilterClassroomsByStudent(ctx context.Context, email string) ([]classroom.Classroom, error) {
	return repo.filter(func(room classroom.Classroom) bool { return room.HasStudent(email) })
}

func (repo *ClassroomRepository) SearchClassroomsByName(ctx context.Context, term string) ([]classroom.Classroom, error) {
	term = strings.ToLower(term)
	return repo.filter(func(room classroom.Classroom) bool {
		return strings.Contains(strings.ToLower(room.Name), term)
	})
}

func (repo *ClassroomRepository) filter(match func(classroom.Classroom) bool) ([]classroom.Classroom, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rooms := make([]classroom.Classroom, 0)
	for _, room := range repo.rooms {
		if match(room) {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (repo *ClassroomRepository) AppendClassroomStudent(ctx context.Context, id, email string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for i := range repo.rooms {
		if repo.rooms[i].ID == id {
			if !repo.rooms[i].HasStudent(email) {
				repo.rooms[i].Students = append(repo.rooms[i].Students, email)
			}
			return nil
		}
	}
	return classroom.ErrNotFound
}

func (repo *ClassroomRepository) CreatePost(ctx context.Context, post classroom.Post) (classroom.Post, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	post.ID = primitive.NewObjectID().Hex()
	repo.posts = append(repo.posts, post)
	return post, nil
}

func (repo *ClassroomRepository) AppendClassroomPost(ctx context.Context, classroomID, postID string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for i := range repo.rooms {
		if repo.rooms[i].ID == classroomID {
			repo.rooms[i].Posts = append(repo.rooms[i].Posts, postID)
			return nil
		}
	}
	return classroom.ErrNotFound
}

func (repo *ClassroomRepository) GetPostsByClassroom(ctx context.Context, classroomID string) ([]classroom.Post, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	posts := make([]classroom.Post, 0)
	for _, post := range repo.posts {
		if post.ClassroomID == classroomID {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (repo *ClassroomRepository) CreateJoinRequest(ctx context.Context, req classroom.JoinRequest) (classroom.JoinRequest, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	req.ID = primitive.NewObjectID().Hex()
	repo.joins = append(repo.joins, req)
	return req, nil
}

func (repo *ClassroomRepository) GetJoinRequest(ctx context.Context, classroomID, studentEmail string, code int) (classroom.JoinRequest, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, req := range repo.joins {
		if req.ClassroomID == classroomID && req.StudentEmail == studentEmail && req.Code == code {
			return req, nil
		}
	}
	return classroom.JoinRequest{}, classroom.ErrJoinRequestNotFound
}

func (repo *ClassroomRepository) DeleteJoinRequest(ctx context.Context, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for i, req := range repo.joins {
		if req.ID == id {
			repo.joins = append(repo.joins[:i], repo.joins[i+1:]...)
			return nil
		}
	}
	return nil
}

// JoinRequests returns a snapshot of pending join requests; test helper.
func (repo *ClassroomRepository) JoinRequests() []classroom.JoinRequest {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	joins := make([]classroom.JoinRequest, len(repo.joins))
	copy(joins, repo.joins)
	return joins
}

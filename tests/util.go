package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/Hussainrokeriya/champweb-backend/core"
	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

// NewConfig returns a Config suitable for tests; nothing is read from the
// environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Debug:     false,
		TestMode:  true,
		Build:     "test",
		AppName:   "ChampWeb",
		SecretKey: "test-secret-key",
		DefaultFromEmail: mail.Address{
			Name:    "Team ChampWeb",
			Address: "noreply@test.local",
		},
		Server: core.ServerConfig{
			Host:               "127.0.0.1",
			Port:               "0",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
	}
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, active bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     core.CleanString(email, true /* lower */),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClassroom(t *testing.T, repo classroom.Repository, name, ownerID string, students ...string) classroom.Classroom {
	t.Helper()

	if students == nil {
		students = []string{}
	}
	now := time.Now().UTC()
	room := classroom.Classroom{
		Name:      name,
		Owner:     ownerID,
		Students:  students,
		Posts:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	room, err := repo.CreateClassroom(context.Background(), room)
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return room
}

func CreatePost(t *testing.T, repo classroom.Repository, classroomID, title, authorID string) classroom.Post {
	t.Helper()

	ctx := context.Background()
	post := classroom.Post{
		Title:       title,
		ClassroomID: classroomID,
		CreatedBy:   authorID,
		CreatedAt:   time.Now().UTC(),
	}
	post, err := repo.CreatePost(ctx, post)
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	if err = repo.AppendClassroomPost(ctx, classroomID, post.ID); err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	return post
}

func CreateJoinRequest(t *testing.T, repo classroom.Repository, classroomID, studentEmail string, code int, ownerEmail string) classroom.JoinRequest {
	t.Helper()

	req := classroom.JoinRequest{
		ClassroomID:  classroomID,
		StudentEmail: studentEmail,
		Code:         code,
		OwnerEmail:   ownerEmail,
		CreatedAt:    time.Now().UTC(),
	}
	req, err := repo.CreateJoinRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateJoinRequest() failed: %v", err)
	}
	return req
}

package classroom

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Hussainrokeriya/champweb-backend/core"
	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

var (
	// errors
	ErrNotFound            = errors.New("classroom not found")
	ErrOwnerNotFound       = errors.New("class owner not found")
	ErrNoStudentClassrooms = errors.New("no classrooms found for this student")
	ErrInvalidOTP          = errors.New("invalid OTP or join request not found")
	ErrOTPDeliveryFailed   = errors.New("failed to send OTP")

	// ErrJoinRequestNotFound is the repository-level sentinel for a missing
	// JoinRequest; callers of the service only ever see ErrInvalidOTP.
	ErrJoinRequestNotFound = errors.New("join request not found")
)

type (
	Repository interface {
		CreateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		GetClassroomByID(ctx context.Context, id string) (Classroom, error)
		FilterClassroomsByOwner(ctx context.Context, ownerID string) ([]Classroom, error)
		FilterClassroomsByStudent(ctx context.Context, email string) ([]Classroom, error)
		// SearchClassroomsByName does a case-insensitive substring match on Classroom.Name.
		SearchClassroomsByName(ctx context.Context, term string) ([]Classroom, error)
		AppendClassroomStudent(ctx context.Context, id, email string) error

		CreatePost(ctx context.Context, post Post) (Post, error)
		AppendClassroomPost(ctx context.Context, classroomID, postID string) error
		GetPostsByClassroom(ctx context.Context, classroomID string) ([]Post, error)

		CreateJoinRequest(ctx context.Context, req JoinRequest) (JoinRequest, error)
		// GetJoinRequest matches on all three fields exactly.
		GetJoinRequest(ctx context.Context, classroomID, studentEmail string, code int) (JoinRequest, error)
		DeleteJoinRequest(ctx context.Context, id string) error
	}

	// UserDirectory resolves account identities for the join flow.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		users    UserDirectory
		mailSvc  core.EmailService
		validate *validator.Validate
	}
)

func NewService(
	conf *core.Config,
	repo Repository,
	users UserDirectory,
	mailSvc core.EmailService,
	validate *validator.Validate,
) *Service {
	return &Service{
		conf:     conf,
		repo:     repo,
		users:    users,
		mailSvc:  mailSvc,
		validate: validate,
	}
}

func (svc *Service) Create(ctx context.Context, ownerID string, nc NewClassroom) (Classroom, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Classroom{}, err
	}

	now := time.Now().UTC()
	room := Classroom{
		Name:        nc.Name,
		Description: nc.Description,
		Owner:       ownerID,
		Students:    []string{},
		Posts:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateClassroom(ctx, room)
}

// QueryOwnedBy returns all classrooms created by ownerID; an empty result is
// not an error.
func (svc *Service) QueryOwnedBy(ctx context.Context, ownerID string) ([]Classroom, error) {
	return svc.repo.FilterClassroomsByOwner(ctx, ownerID)
}

// GetByID returns the classroom with its post references resolved.
func (svc *Service) GetByID(ctx context.Context, id string) (ClassroomDetail, error) {
	room, err := svc.repo.GetClassroomByID(ctx, id)
	if err != nil {
		return ClassroomDetail{}, err
	}
	posts, err := svc.repo.GetPostsByClassroom(ctx, room.ID)
	if err != nil {
		return ClassroomDetail{}, err
	}
	return ClassroomDetail{Classroom: room, Posts: posts}, nil
}

// AddPost creates the post, then appends its reference to the classroom. The
// two writes are independent; a fault in between leaves an orphaned post.
func (svc *Service) AddPost(ctx context.Context, authorID string, np NewPost) (Post, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Post{}, err
	}

	room, err := svc.repo.GetClassroomByID(ctx, np.ClassroomID)
	if err != nil {
		return Post{}, err
	}

	post := Post{
		Title:       np.Title,
		Description: np.Description,
		ClassroomID: room.ID,
		CreatedBy:   authorID,
		CreatedAt:   time.Now().UTC(),
	}
	post, err = svc.repo.CreatePost(ctx, post)
	if err != nil {
		return Post{}, err
	}
	if err = svc.repo.AppendClassroomPost(ctx, room.ID, post.ID); err != nil {
		return Post{}, err
	}
	return post, nil
}

// Search matches term as a case-insensitive substring of classroom names.
// An empty result surfaces as ErrNotFound.
func (svc *Service) Search(ctx context.Context, term string) ([]Classroom, error) {
	term = core.CleanString(term)
	if term == "" {
		err := errors.New("search term is required")
		return nil, core.NewValidationError(err, core.FieldError{Field: "term", Error: err.Error()})
	}

	rooms, err := svc.repo.SearchClassroomsByName(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrNotFound
	}
	return rooms, nil
}

// RequestToJoin issues a join OTP: the code is emailed to the classroom owner
// and a JoinRequest is persisted only once delivery succeeded.
func (svc *Service) RequestToJoin(ctx context.Context, jc JoinClassroom) error {
	if err := jc.Validate(svc.validate); err != nil {
		return err
	}

	room, err := svc.repo.GetClassroomByID(ctx, jc.ClassroomID)
	if err != nil {
		return err
	}
	owner, err := svc.users.GetByID(ctx, room.Owner)
	if err != nil {
		if err == user.ErrNotFound {
			return ErrOwnerNotFound
		}
		return err
	}

	code := codeFunc()
	msg := &core.EmailMessage{
		To:          []mail.Address{{Name: owner.Name, Address: owner.Email}},
		Subject:     "OTP for " + svc.conf.AppName,
		TextContent: fmt.Sprintf("Your OTP is %d", code),
		HTMLContent: fmt.Sprintf("<b>Your OTP is %d</b>", code),
	}
	if err = svc.mailSvc.SendMessage(ctx, msg); err != nil {
		return ErrOTPDeliveryFailed
	}

	req := JoinRequest{
		ClassroomID:  room.ID,
		StudentEmail: jc.StudentEmail,
		Code:         code,
		OwnerEmail:   owner.Email,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = svc.repo.CreateJoinRequest(ctx, req)
	return err
}

// VerifyOTP redeems a join OTP: on an exact (classroom, student, code) match
// the student is added to the classroom and the matched request is consumed.
// A wrong code and a missing request are indistinguishable to the caller.
func (svc *Service) VerifyOTP(ctx context.Context, vj VerifyJoin) error {
	if err := vj.Validate(svc.validate); err != nil {
		return err
	}

	req, err := svc.repo.GetJoinRequest(ctx, vj.ClassroomID, vj.StudentEmail, vj.OTP)
	if err != nil {
		if err == ErrJoinRequestNotFound {
			return ErrInvalidOTP
		}
		return err
	}

	room, err := svc.repo.GetClassroomByID(ctx, vj.ClassroomID)
	if err != nil {
		return err
	}
	if !room.HasStudent(vj.StudentEmail) {
		if err = svc.repo.AppendClassroomStudent(ctx, room.ID, vj.StudentEmail); err != nil {
			return err
		}
	}

	// single-use: only the matched request is consumed
	return svc.repo.DeleteJoinRequest(ctx, req.ID)
}

// QueryForStudent returns the classrooms the caller is a member of. An empty
// result surfaces as ErrNoStudentClassrooms.
func (svc *Service) QueryForStudent(ctx context.Context, userID string) ([]Classroom, error) {
	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rooms, err := svc.repo.FilterClassroomsByStudent(ctx, usr.Email)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrNoStudentClassrooms
	}
	return rooms, nil
}

package classroom

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Hussainrokeriya/champweb-backend/core"
)

type (
	// Classroom is a named container owned by a user, holding member emails
	// and post references.
	Classroom struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		Owner       string    `json:"owner"`
		Students    []string  `json:"students"`
		Posts       []string  `json:"posts"`     // post IDs
		CreatedAt   time.Time `json:"createdAt"` // UTC
		UpdatedAt   time.Time `json:"updatedAt"` // UTC
	}

	// ClassroomDetail is a Classroom with its post references resolved.
	ClassroomDetail struct {
		Classroom
		Posts []Post `json:"posts"`
	}

	Post struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		ClassroomID string    `json:"classId"`
		CreatedBy   string    `json:"createdBy"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
	}

	// JoinRequest correlates a join attempt with its issued OTP until it is
	// consumed. Several may coexist for the same (classroom, student) pair;
	// any one of them validates the join.
	JoinRequest struct {
		ID           string    `json:"id"`
		ClassroomID  string    `json:"classroomId"`
		StudentEmail string    `json:"studentEmail"`
		Code         int       `json:"code"`
		OwnerEmail   string    `json:"classOwnerEmail"`
		CreatedAt    time.Time `json:"createdAt"` // UTC
	}
)

func (c *Classroom) HasStudent(email string) bool {
	for _, s := range c.Students {
		if s == email {
			return true
		}
	}
	return false
}

// NewClassroom contains information needed to create a new Classroom.
type NewClassroom struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewClassroom) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewPost contains information needed to add a Post to a Classroom.
type NewPost struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ClassroomID string `json:"classId" validate:"required"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.ClassroomID = core.CleanString(np.ClassroomID)
	return validate.Struct(np)
}

// JoinClassroom is a student's request for a join OTP.
type JoinClassroom struct {
	ClassroomID  string `json:"classroomId" validate:"required"`
	StudentEmail string `json:"studentEmail" validate:"required,email"`
}

func (jc *JoinClassroom) Validate(validate *validator.Validate) error {
	jc.ClassroomID = core.CleanString(jc.ClassroomID)
	jc.StudentEmail = core.CleanString(jc.StudentEmail, true /* lower */)
	return validate.Struct(jc)
}

// VerifyJoin redeems a previously issued join OTP.
type VerifyJoin struct {
	ClassroomID  string `json:"classroomId" validate:"required"`
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	OTP          int    `json:"otp" validate:"required"`
}

func (vj *VerifyJoin) Validate(validate *validator.Validate) error {
	vj.ClassroomID = core.CleanString(vj.ClassroomID)
	vj.StudentEmail = core.CleanString(vj.StudentEmail, true /* lower */)
	return validate.Struct(vj)
}

package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
	emailsvc "github.com/Hussainrokeriya/champweb-backend/services/email"
	testutil "github.com/Hussainrokeriya/champweb-backend/tests"
)

func TestAPI_Home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to ChampWeb API!", rec.Body.String())
}

func TestAPI_ClassroomCreate(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Create Teacher", "create.teacher@test.cm", "passwd", true)
	token := getToken(t, usr)

	tt := []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/class/create",
			body:     marshallObj(t, classroom.NewClassroom{Name: "Biology"}),
			wantCode: http.StatusUnauthorized,
			wantMsg:  errMissingToken,
		},
		{
			name:     "name required",
			method:   http.MethodPost,
			path:     "/class/create",
			body:     marshallObj(t, classroom.NewClassroom{Description: "no name"}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid input",
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/class/create",
			body:     marshallObj(t, classroom.NewClassroom{Name: "Biology", Description: "Cells and friends"}),
			token:    token,
			wantCode: http.StatusCreated,
			wantMsg:  "Classroom created successfully",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newAuthRequest(tc.method, tc.path, tc.token, tc.body)
			server.ServeHTTP(rec, req)
			env := checkEnvelope(t, tc, rec)

			if tc.wantCode == http.StatusCreated {
				var room classroom.Classroom
				require.NoError(t, json.Unmarshal(env.Data, &room))
				assert.NotEmpty(t, room.ID)
				assert.Equal(t, "Biology", room.Name)
				assert.Equal(t, usr.ID, room.Owner)
				assert.Empty(t, room.Students)
			}
			if tc.name == "name required" {
				var fields map[string]string
				require.NoError(t, json.Unmarshal(env.Data, &fields))
				assert.Equal(t, "this field is required", fields["name"])
			}
		})
	}
}

func TestAPI_ClassroomsCreatedByMe(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Owner Teacher", "owner.teacher@test.cm", "passwd", true)
	token := getToken(t, usr)

	t.Run("none yet", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "Classrooms fetched successfully",
		}
		req, rec := newAuthRequest(http.MethodGet, "/class/classroomscreatedbyme", token)
		server.ServeHTTP(rec, req)
		env := checkEnvelope(t, tc, rec)

		var rooms []classroom.Classroom
		require.NoError(t, json.Unmarshal(env.Data, &rooms))
		assert.Empty(t, rooms)
	})

	t.Run("owned classrooms", func(t *testing.T) {
		room := testutil.CreateClassroom(t, classRepo, "Chemistry", usr.ID)
		testutil.CreateClassroom(t, classRepo, "Not Mine", "someone-else")

		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "Classrooms fetched successfully",
		}
		req, rec := newAuthRequest(http.MethodGet, "/class/classroomscreatedbyme", token)
		server.ServeHTTP(rec, req)
		env := checkEnvelope(t, tc, rec)

		var rooms []classroom.Classroom
		require.NoError(t, json.Unmarshal(env.Data, &rooms))
		require.Len(t, rooms, 1)
		assert.Equal(t, room.ID, rooms[0].ID)
	})
}

func TestAPI_GetClassByID(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Detail Teacher", "detail.teacher@test.cm", "passwd", true)
	token := getToken(t, usr)

	room := testutil.CreateClassroom(t, classRepo, "History", usr.ID, "pupil@test.cm")
	post := testutil.CreatePost(t, classRepo, room.ID, "Welcome aboard", usr.ID)

	t.Run("not found", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusNotFound,
			wantMsg:  "classroom not found",
		}
		req, rec := newAuthRequest(http.MethodGet, "/class/getclassbyid/5ff325aa7d4a8d2bd0a12345", token)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)
	})

	t.Run("ok with posts", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "Classroom fetched successfully",
		}
		req, rec := newAuthRequest(http.MethodGet, "/class/getclassbyid/"+room.ID, token)
		server.ServeHTTP(rec, req)
		env := checkEnvelope(t, tc, rec)

		var detail classroom.ClassroomDetail
		require.NoError(t, json.Unmarshal(env.Data, &detail))
		assert.Equal(t, room.ID, detail.ID)
		assert.Equal(t, []string{"pupil@test.cm"}, detail.Students)
		require.Len(t, detail.Posts, 1)
		assert.Equal(t, post.ID, detail.Posts[0].ID)
		assert.Equal(t, "Welcome aboard", detail.Posts[0].Title)
	})
}

func TestAPI_AddPost(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Post Teacher", "post.teacher@test.cm", "passwd", true)
	token := getToken(t, usr)
	room := testutil.CreateClassroom(t, classRepo, "Physics", usr.ID)

	tt := []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/class/addpost",
			body:     marshallObj(t, classroom.NewPost{Title: "Gravity", ClassroomID: room.ID}),
			wantCode: http.StatusUnauthorized,
			wantMsg:  errMissingToken,
		},
		{
			name:     "title required",
			method:   http.MethodPost,
			path:     "/class/addpost",
			body:     marshallObj(t, classroom.NewPost{ClassroomID: room.ID}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid input",
		},
		{
			name:     "unknown classroom",
			method:   http.MethodPost,
			path:     "/class/addpost",
			body:     marshallObj(t, classroom.NewPost{Title: "Gravity", ClassroomID: "5ff325aa7d4a8d2bd0a12345"}),
			token:    token,
			wantCode: http.StatusNotFound,
			wantMsg:  "classroom not found",
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/class/addpost",
			body:     marshallObj(t, classroom.NewPost{Title: "Gravity", Description: "Newton week", ClassroomID: room.ID}),
			token:    token,
			wantCode: http.StatusCreated,
			wantMsg:  "Post created successfully",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newAuthRequest(tc.method, tc.path, tc.token, tc.body)
			server.ServeHTTP(rec, req)
			env := checkEnvelope(t, tc, rec)

			if tc.wantCode == http.StatusCreated {
				var post classroom.Post
				require.NoError(t, json.Unmarshal(env.Data, &post))
				assert.NotEmpty(t, post.ID)
				assert.Equal(t, room.ID, post.ClassroomID)
				assert.Equal(t, usr.ID, post.CreatedBy)

				updated, err := classRepo.GetClassroomByID(req.Context(), room.ID)
				require.NoError(t, err)
				assert.Contains(t, updated.Posts, post.ID)
			}
		})
	}
}

func TestAPI_Search(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Search Teacher", "search.teacher@test.cm", "passwd", true)
	room := testutil.CreateClassroom(t, classRepo, "Advanced Algebra", usr.ID)

	tt := []httpTest{
		{
			name:     "term required",
			method:   http.MethodGet,
			path:     "/class/classrooms/search",
			wantCode: http.StatusBadRequest,
			wantMsg:  "search term is required",
		},
		{
			name:     "no match",
			method:   http.MethodGet,
			path:     "/class/classrooms/search?term=knitting",
			wantCode: http.StatusNotFound,
			wantMsg:  "classroom not found",
		},
		{
			name:     "case-insensitive match",
			method:   http.MethodGet,
			path:     "/class/classrooms/search?term=algebra",
			wantCode: http.StatusOK,
			wantMsg:  "Search results",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newRequest(tc.method, tc.path)
			server.ServeHTTP(rec, req)
			env := checkEnvelope(t, tc, rec)

			if tc.wantCode == http.StatusOK {
				var rooms []classroom.Classroom
				require.NoError(t, json.Unmarshal(env.Data, &rooms))
				require.Len(t, rooms, 1)
				assert.Equal(t, room.ID, rooms[0].ID)
			}
		})
	}
}

func TestAPI_JoinFlow(t *testing.T) {
	emailsvc.ClearSentMessages()

	owner := testutil.CreateUser(t, usrRepo, "Join Owner", "join.owner@test.cm", "passwd", true)
	student := testutil.CreateUser(t, usrRepo, "Join Student", "join.student@test.cm", "passwd", true)
	studentToken := getToken(t, student)
	room := testutil.CreateClassroom(t, classRepo, "Geography", owner.ID)

	t.Run("request rejects bad email", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid input",
		}
		body := marshallObj(t, classroom.JoinClassroom{ClassroomID: room.ID, StudentEmail: "not-an-email"})
		req, rec := newRequest(http.MethodPost, "/class/request-to-join", body)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)
		assert.Empty(t, emailsvc.SentMessages)
	})

	t.Run("request rejects unknown classroom", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusNotFound,
			wantMsg:  "classroom not found",
		}
		body := marshallObj(t, classroom.JoinClassroom{ClassroomID: "5ff325aa7d4a8d2bd0a12345", StudentEmail: student.Email})
		req, rec := newRequest(http.MethodPost, "/class/request-to-join", body)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)
	})

	t.Run("request mails OTP to owner", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "OTP sent to the class owner",
		}
		body := marshallObj(t, classroom.JoinClassroom{ClassroomID: room.ID, StudentEmail: student.Email})
		req, rec := newRequest(http.MethodPost, "/class/request-to-join", body)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)

		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		require.Len(t, msg.To, 1)
		assert.Equal(t, owner.Email, msg.To[0].Address)
	})

	t.Run("verify rejects wrong OTP", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid OTP or join request not found",
		}
		body := marshallObj(t, classroom.VerifyJoin{
			ClassroomID:  room.ID,
			StudentEmail: student.Email,
			OTP:          1, // out of generator range
		})
		req, rec := newAuthRequest(http.MethodPost, "/class/verify-otp", studentToken, body)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)
	})

	t.Run("verify joins the classroom", func(t *testing.T) {
		code := pendingCode(t, room.ID, student.Email)

		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "Class joined successfully",
		}
		body := marshallObj(t, classroom.VerifyJoin{
			ClassroomID:  room.ID,
			StudentEmail: student.Email,
			OTP:          code,
		})
		req, rec := newAuthRequest(http.MethodPost, "/class/verify-otp", studentToken, body)
		server.ServeHTTP(rec, req)
		checkEnvelope(t, tc, rec)

		updated, err := classRepo.GetClassroomByID(req.Context(), room.ID)
		require.NoError(t, err)
		assert.Contains(t, updated.Students, student.Email)
	})

	t.Run("classrooms for student", func(t *testing.T) {
		tc := httpTest{
			wantCode: http.StatusOK,
			wantMsg:  "Classrooms fetched successfully",
		}
		req, rec := newAuthRequest(http.MethodGet, "/class/classroomsforstudent", studentToken)
		server.ServeHTTP(rec, req)
		env := checkEnvelope(t, tc, rec)

		var rooms []classroom.Classroom
		require.NoError(t, json.Unmarshal(env.Data, &rooms))
		require.Len(t, rooms, 1)
		assert.Equal(t, room.ID, rooms[0].ID)
	})
}

func TestAPI_ClassroomsForStudent_NoneJoined(t *testing.T) {
	student := testutil.CreateUser(t, usrRepo, "Lonely Student", "lonely.student@test.cm", "passwd", true)
	token := getToken(t, student)

	tc := httpTest{
		wantCode: http.StatusNotFound,
		wantMsg:  "no classrooms found for this student",
	}
	req, rec := newAuthRequest(http.MethodGet, "/class/classroomsforstudent", token)
	server.ServeHTTP(rec, req)
	checkEnvelope(t, tc, rec)
}

// pendingCode looks up the stored OTP for a pending join request.
func pendingCode(t *testing.T, classroomID, studentEmail string) int {
	t.Helper()

	for _, jr := range classRepo.JoinRequests() {
		if jr.ClassroomID == classroomID && jr.StudentEmail == studentEmail {
			return jr.Code
		}
	}
	t.Fatalf("no pending join request for %s in classroom %s", studentEmail, classroomID)
	return 0
}

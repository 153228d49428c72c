package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
)

type classroomApi struct {
	svc *classroom.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service) {
	api := classroomApi{svc: svc}

	cg := g.Group("/class")

	// un-authed endpoints
	cg.GET("/classrooms/search", api.search)
	cg.POST("/request-to-join", api.requestToJoin)

	// authed endpoints
	cg.POST("/create", api.create, jwt)
	cg.GET("/classroomscreatedbyme", api.ownedByMe, jwt)
	cg.GET("/getclassbyid/:classid", api.retrieve, jwt)
	cg.POST("/addpost", api.addPost, jwt)
	cg.POST("/verify-otp", api.verifyOTP, jwt)
	cg.GET("/classroomsforstudent", api.forStudent, jwt)
}

// Handlers

func (api *classroomApi) create(ctx echo.Context) error {
	var data classroom.NewClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassroom")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	room, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Classroom created successfully", room)
}

func (api *classroomApi) ownedByMe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	rooms, err := api.svc.QueryOwnedBy(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying owned classrooms")
	}
	return respond(ctx, http.StatusOK, "Classrooms fetched successfully", rooms)
}

func (api *classroomApi) retrieve(ctx echo.Context) error {
	room, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("classid"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Classroom fetched successfully", room)
}

func (api *classroomApi) addPost(ctx echo.Context) error {
	var data classroom.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	post, err := api.svc.AddPost(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Post created successfully", post)
}

func (api *classroomApi) search(ctx echo.Context) error {
	rooms, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("term"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Search results", rooms)
}

func (api *classroomApi) requestToJoin(ctx echo.Context) error {
	var data classroom.JoinClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinClassroom")
	}

	if err := api.svc.RequestToJoin(ctx.Request().Context(), data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "OTP sent to the class owner", nil)
}

func (api *classroomApi) verifyOTP(ctx echo.Context) error {
	var data classroom.VerifyJoin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyJoin")
	}

	if err := api.svc.VerifyOTP(ctx.Request().Context(), data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Class joined successfully", nil)
}

func (api *classroomApi) forStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	rooms, err := api.svc.QueryForStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Classrooms fetched successfully", rooms)
}

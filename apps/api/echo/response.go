package echoapi

import "github.com/labstack/echo/v4"

// Response is the uniform envelope returned by every endpoint, success and
// failure alike.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Success    bool        `json:"success"`
}

func respond(ctx echo.Context, code int, msg string, data interface{}) error {
	return ctx.JSON(code, Response{
		StatusCode: code,
		Message:    msg,
		Data:       data,
		Success:    code < 400,
	})
}

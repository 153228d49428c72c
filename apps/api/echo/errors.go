package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Hussainrokeriya/champweb-backend/core"
	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errValidation   = "invalid input"
	errInternal     = http.StatusText(http.StatusInternalServerError)
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that converts
// our errors into the response envelope. signalShutdown is called whenever a
// core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var data interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = fmtHTTPErrorMessage(origErr)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = fmtHTTPErrorMessage(origErr)
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = errValidation
			data = fldErrs
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = errValidation
			if origErr.Err != nil {
				message = origErr.Error()
			}
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				data = fldErrs
			}
		default:
			switch cause {
			case classroom.ErrInvalidOTP:
				code = http.StatusBadRequest
				message = cause.Error()
			case classroom.ErrNotFound, classroom.ErrOwnerNotFound, classroom.ErrNoStudentClassrooms, user.ErrNotFound:
				code = http.StatusNotFound
				message = cause.Error()
			case classroom.ErrOTPDeliveryFailed:
				code = http.StatusInternalServerError
				message = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = errInternal

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Name = claims.Name
					usr.Email = claims.Email
				}
				// internal details are logged, never echoed back
				logger.Error(errInternal, errors.Wrap(err, errInternal), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = respond(ctx, code, message, data)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func fmtHTTPErrorMessage(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}

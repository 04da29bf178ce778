package errs

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTP translates a domain error into the echo error the dispatcher
// returns: ValidationError -> 400, NotFoundError -> 404, anything else is
// an unexpected persistence failure -> 500.
func ToHTTP(err error) *echo.HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Msg)
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

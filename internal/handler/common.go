package handler // handler defines http handlers

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/glamping-reservation/internal/booking"
    "github.com/iliyamo/glamping-reservation/internal/model"
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

// Validator adapts the booking validator to echo.Validator so handlers can
// call c.Validate on request DTOs.
type Validator struct {
    V *validator.Validate
}

func NewValidator() *Validator { return &Validator{V: booking.Validate} }

func (v *Validator) Validate(i any) error {
    if err := v.V.Struct(i); err != nil {
        var verrs validator.ValidationErrors
        if errors.As(err, &verrs) && len(verrs) > 0 {
            fe := verrs[0]
            return &booking.ValidationError{Field: fe.Field(), Message: "failed '" + fe.Tag() + "' validation"}
        }
        return &booking.ValidationError{Message: err.Error()}
    }
    return nil
}

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bindAndValidate decodes the JSON body into dst and validates it.  Failures
// come back as *booking.ValidationError.
func bindAndValidate(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return &booking.ValidationError{Message: "invalid body"}
    }
    return c.Validate(dst)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// parseDateParam reads a YYYY-MM-DD query parameter.
func parseDateParam(c echo.Context, name string) (model.Date, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return model.Date{}, &booking.ValidationError{Field: name, Message: "is required"}
    }
    d, err := model.ParseDate(raw)
    if err != nil {
        return model.Date{}, &booking.ValidationError{Field: name, Message: "must be a YYYY-MM-DD date"}
    }
    return d, nil
}

// writeError maps booking errors onto HTTP statuses.  Anything unknown is
// logged and reported as a 500 without details.
func writeError(c echo.Context, err error) error {
    var (
        verr *booking.ValidationError
        nerr *booking.NotFoundError
        cerr *booking.ConflictError
        serr *booking.InvalidStateError
    )
    switch {
    case errors.As(err, &verr):
        body := echo.Map{"error": verr.Error()}
        if verr.Field != "" {
            body["field"] = verr.Field
        }
        return c.JSON(http.StatusBadRequest, body)
    case errors.As(err, &nerr):
        return c.JSON(http.StatusNotFound, echo.Map{"error": nerr.Error()})
    case errors.As(err, &cerr):
        ranges := cerr.Ranges
        if ranges == nil {
            ranges = []booking.Range{}
        }
        return c.JSON(http.StatusConflict, echo.Map{"error": cerr.Error(), "conflicts": ranges})
    case errors.As(err, &serr):
        return c.JSON(http.StatusConflict, echo.Map{"error": serr.Error(), "status": serr.From})
    case errors.Is(err, context.DeadlineExceeded):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request timed out"})
    }
    log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

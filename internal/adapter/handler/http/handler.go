package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
)

// bind decodes the request into dst. Malformed bodies become validation errors
// so they render like any other rejected input.
func bind(c echo.Context, dst interface{}) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		return domainErrors.NewFieldValidationError(field,
			fmt.Sprintf("The %s field has an invalid type.", strings.ReplaceAll(field, "_", " ")))
	}
	return domainErrors.NewFieldValidationError("body", "The request body is invalid.")
}

// orderID reads the :id path parameter. Anything that is not a positive
// integer cannot name an order the caller owns.
func orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainErrors.NewNotFoundError("order")
	}
	return id, nil
}

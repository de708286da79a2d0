package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"
)

const msgInvalidBody = "Corpo da requisição inválido"

// decodeAndValidate reads a JSON body into req and validates it, writing the
// 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}, invalidMsg string) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, msgInvalidBody)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, invalidMsg, v.FormatValidationErrors(err))
		return false
	}
	return true
}

// writeAccessError handles the identity and ownership errors every protected
// usecase may return. It reports whether err was one of them.
func writeAccessError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "")
	default:
		return false
	}
	return true
}

package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// FieldErrors возвращает ошибку с маппингом поле -> сообщение.
func FieldErrors(errs map[string]string) Response {
	return Response{
		Status: StatusError,
		Errors: errs,
	}
}

// ValidationError собирает ВСЕ ошибки валидации в один маппинг,
// не останавливаясь на первой.
func ValidationError(errs validator.ValidationErrors) Response {
	fieldErrs := make(map[string]string, len(errs))

	for _, err := range errs {
		field := strings.ToLower(err.Field())

		switch err.ActualTag() {
		case "required":
			fieldErrs[field] = fmt.Sprintf("field %s is a required field", field)
		case "email":
			fieldErrs[field] = fmt.Sprintf("field %s is not a valid email", field)
		default:
			fieldErrs[field] = fmt.Sprintf("field %s is not valid", field)
		}
	}

	return FieldErrors(fieldErrs)
}

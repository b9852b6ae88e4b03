package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

// newValidator reports field paths by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody decodes and validates a JSON body. Failures come back as *ValidationError.
func decodeBody(r *http.Request, validate *validator.Validate, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "malformed JSON"
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domerrors.NewValidationError(typeErr.Field, "must be "+typeErr.Type.String())
		}
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		return domerrors.NewValidationError("body", msg)
	}
	return validateStruct(validate, dst)
}

func validateStruct(validate *validator.Validate, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domerrors.NewValidationError("body", err.Error())
	}
	out := &domerrors.ValidationError{}
	for _, fe := range verrs {
		out.Details = append(out.Details, domerrors.FieldError{Path: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the root struct name: "body.updates[0].id" -> "updates[0].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "hexadecimal":
		return "must be hexadecimal"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"erms/models"
	"erms/respond"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// FieldError is one entry of a 422 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks decoded request bodies against their validate tags.
type Validator struct {
	v *validator.Validate
}

type enumValue interface {
	Valid() bool
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// enum accepts any value whose Valid method reports true.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumValue)
		return ok && e.Valid()
	})
	return &Validator{v: v}
}

// Struct returns nil or the list of failed fields.
func (val *Validator) Struct(s any) []FieldError {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "enum":
		return fmt.Sprintf("unsupported value %v", fe.Value())
	}
	return "failed " + fe.Tag() + " validation"
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure it
// writes the error response and returns false.
func (val *Validator) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeDecodeError(w, err)
		return false
	}
	if errs := val.Struct(dst); errs != nil {
		respond.Error(w, http.StatusUnprocessableEntity, errs)
		return false
	}
	return true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var enumErr *models.EnumError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &enumErr):
		respond.Error(w, http.StatusUnprocessableEntity, []FieldError{{Field: enumErr.Field, Message: enumErr.Error()}})
	case errors.As(err, &typeErr):
		respond.Error(w, http.StatusUnprocessableEntity, []FieldError{{
			Field:   typeErr.Field,
			Message: "expected " + typeErr.Type.String(),
		}})
	default:
		respond.Error(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
}

// pathID parses the {id} URL parameter. On failure it writes a 422 and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respond.Error(w, http.StatusUnprocessableEntity, []FieldError{{Field: "id", Message: "value is not a valid integer"}})
		return 0, false
	}
	return uint(id), true
}

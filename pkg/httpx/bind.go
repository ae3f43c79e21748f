package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrBadBody reports a body that could not be parsed at all.
var ErrBadBody = errors.New("httpx: malformed request body")

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads a JSON, form-encoded or multipart body into dst. Form values
// are only supported for string fields. A body whose fields have the wrong
// JSON type, or that is not JSON at all, yields a *ValidationError; a body
// that cannot be read yields ErrBadBody.
func Decode(r *http.Request, dst any) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(MaxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		flat := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			flat[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(flat)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return bodyError(err)
		}
		return nil
	default:
		dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
		if err := dec.Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return nil // empty body, let validation report missing fields
			}
			return bodyError(err)
		}
		return nil
	}
}

// bodyError names the offending field of a JSON decoding failure where it
// is known.
func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &ValidationError{Fields: map[string]string{field: "must be " + kindName(typeErr.Type)}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Fields: map[string]string{"body": "must be a JSON object"}}
	default:
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "of another type"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "of another type"
	}
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "hostname_rfc1123", "fqdn":
		return "must be a valid hostname"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "semver":
		return "must be a semantic version"
	default:
		return "is invalid"
	}
}

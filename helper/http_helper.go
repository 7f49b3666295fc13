package helper

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"stagestream/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	codeTypeBadRequest   = `badRequest`
	codeTypeValidation   = `validationError`
	codeTypeUnauthorized = `unAuthorized`
	codeTypeNotFound     = `notFound`
	codeTypeConflict     = `conflict`
	codeTypeInternal     = `internalError`

	messageMissingFields = "Missing required fields"
	messageInvalid       = "Invalid request"
	messageInternal      = "Internal server error"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error    string              `json:"error"`
	CodeType string              `json:"code_type"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper builds a helper whose validator reports fields by their JSON
// names and translates messages to English.
func NewHTTPHelper() *HTTPHelper {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("slug", trans, func(ut ut.Translator) error {
		return ut.Add("slug", "{0} may only contain lowercase letters, digits, '-' and '_'", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("slug", fe.Field())
		return t
	})

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validationErr   *models.ErrorValidation
		unauthorizedErr *models.ErrorUnauthorized
		notFoundErr     *models.ErrorNotFound
		conflictErr     *models.ErrorConflict
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &unauthorizedErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		// Duplicate slugs are reported as bad requests to existing clients.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// BindJSON decodes the request body into req and validates it. On failure it
// writes the error response and returns false.
func (u *HTTPHelper) BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		u.SendBadRequest(c, "Invalid request body")
		return false
	}
	if n, ok := req.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return u.ValidateStruct(c, req)
}

// ValidateStruct ...
func (u *HTTPHelper) ValidateStruct(c *gin.Context, req interface{}) bool {
	err := u.Validate.Struct(req)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		u.SendValidationError(c, validationErrors)
		return false
	}
	u.SendBadRequest(c, err.Error())
	return false
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	fields := map[string][]string{}
	translations := validationErrors.Translate(u.Translator)
	message := messageInvalid
	for _, err := range validationErrors {
		fields[err.Field()] = append(fields[err.Field()], translations[err.Namespace()])
		if err.Tag() == "required" {
			message = messageMissingFields
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:    message,
		CodeType: codeTypeValidation,
		Fields:   fields,
	})
}

// SendError ...
// Send the response matching err's kind. Unclassified errors are logged and
// answered with a generic message.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	status := u.GetStatusCode(err)
	switch status {
	case http.StatusBadRequest:
		var conflictErr *models.ErrorConflict
		if errors.As(err, &conflictErr) {
			u.send(c, status, err.Error(), codeTypeConflict)
			return
		}
		u.send(c, status, err.Error(), codeTypeValidation)
	case http.StatusUnauthorized:
		u.send(c, status, err.Error(), codeTypeUnauthorized)
	case http.StatusNotFound:
		u.send(c, status, err.Error(), codeTypeNotFound)
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		u.send(c, http.StatusInternalServerError, messageInternal, codeTypeInternal)
	}
}

// SendBadRequest ...
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	u.send(c, http.StatusBadRequest, message, codeTypeBadRequest)
}

// SendUnauthorizedError ...
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.send(c, http.StatusUnauthorized, message, codeTypeUnauthorized)
}

// SendNotFoundError ...
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string) {
	u.send(c, http.StatusNotFound, message, codeTypeNotFound)
}

func (u *HTTPHelper) send(c *gin.Context, status int, message, codeType string) {
	c.JSON(status, ErrorResponse{Error: message, CodeType: codeType})
}

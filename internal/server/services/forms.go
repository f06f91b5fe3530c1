package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/go-playground/validator/v10"
)

// SignupForm is the signup page input. Email is optional.
type SignupForm struct {
	Username string `form:"username" validate:"username"`
	Password string `form:"password" validate:"password"`
	Verify   string `form:"verify" validate:"eqfield=Password"`
	Email    string `form:"email" validate:"omitempty,loose_email"`
}

// PostForm is the new blog post input.
type PostForm struct {
	Subject string `form:"subject" validate:"required"`
	Content string `form:"content" validate:"required"`
}

// PageForm is the wiki edit input.
type PageForm struct {
	Content string `form:"content" validate:"required"`
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRe = regexp.MustCompile(`^.{3,20}$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Messages shown next to rejected fields.
const (
	MsgInvalidUsername = "Invalid username."
	MsgUsernameTaken   = "Username already exists."
	MsgInvalidPassword = "Invalid password."
	MsgPasswordsDiffer = "Passwords don't match."
	MsgInvalidEmail    = "Invalid email address."
	MsgPostIncomplete  = "Please provide both subject and content."
	MsgPageEmpty       = "Please enter content (html or plain text)."
	MsgInvalidVersion  = "Invalid version."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "username", usernameRe)
	mustRegister(v, "password", passwordRe)
	mustRegister(v, "loose_email", emailRe)

	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// validateForm runs the struct tags on form and converts failures into a
// *common.ValidationError keyed by form field name. messages maps a field
// name to the text shown for it.
func validateForm(form any, messages map[string]string) *common.ValidationError {
	verr := common.NewValidationError()

	err := validate.Struct(form)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("form", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		verr.Add(fe.Field(), msg)
	}
	return verr
}

func (f SignupForm) validate() *common.ValidationError {
	verr := validateForm(f, map[string]string{
		"username": MsgInvalidUsername,
		"password": MsgInvalidPassword,
		"verify":   MsgPasswordsDiffer,
		"email":    MsgInvalidEmail,
	})
	// A mismatch is only worth reporting once the password itself is valid.
	if verr.Has("password") {
		delete(verr.Fields, "verify")
	}
	return verr
}

func (f PostForm) validate() *common.ValidationError {
	return validateForm(f, map[string]string{
		"subject": MsgPostIncomplete,
		"content": MsgPostIncomplete,
	})
}

func (f PageForm) validate() *common.ValidationError {
	return validateForm(f, map[string]string{"content": MsgPageEmpty})
}

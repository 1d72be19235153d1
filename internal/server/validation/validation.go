// Package validation turns raw request bodies into typed use-case inputs.
//
// RegisterInput and LoginInput have no exported fields, so outside this
// package the only way to obtain one is through a Pipeline that accepted
// the request.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultMinPasswordLength = 3
	MaxPasswordLength        = 1024
	MaxFullNameLength        = 100

	tagPasswordMin = "password_min"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"password_min,max=1024"`
	FullName string `json:"fullName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"password_min,max=1024"`
}

type RegisterInput struct {
	email    string
	password string
	fullName string
}

func (in RegisterInput) Email() string    { return in.email }
func (in RegisterInput) Password() string { return in.password }
func (in RegisterInput) FullName() string { return in.fullName }

type LoginInput struct {
	email    string
	password string
}

func (in LoginInput) Email() string    { return in.email }
func (in LoginInput) Password() string { return in.password }

// Pipeline runs every rule of every field and reports all failures at once.
// It is safe for concurrent use.
type Pipeline struct {
	validate          *validator.Validate
	minPasswordLength int
}

func NewPipeline(minPasswordLength int) *Pipeline {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}

	p := &Pipeline{
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		minPasswordLength: minPasswordLength,
	}

	// Use JSON field names in reported errors
	p.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails on a duplicate tag name
	_ = p.validate.RegisterValidation(tagPasswordMin, func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= p.minPasswordLength
	})

	return p
}

// Register validates req and returns the typed input or a
// *common.ValidationError.
func (p *Pipeline) Register(req RegisterRequest) (RegisterInput, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := p.Validate(req); err != nil {
		return RegisterInput{}, err
	}
	return RegisterInput{email: req.Email, password: req.Password, fullName: req.FullName}, nil
}

func (p *Pipeline) Login(req LoginRequest) (LoginInput, error) {
	req.Email = strings.TrimSpace(req.Email)

	if err := p.Validate(req); err != nil {
		return LoginInput{}, err
	}
	return LoginInput{email: req.Email, password: req.Password}, nil
}

// Validate checks any struct carrying validate tags. It also makes the
// pipeline usable as an echo.Validator.
func (p *Pipeline) Validate(i any) error {
	err := p.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &common.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, common.FieldError{
			Field:   fe.Field(),
			Message: message(fe.Field(), fe.Tag()),
		})
	}
	return out
}

func message(field, tag string) string {
	switch field {
	case "email":
		return "Email is not valid"
	case "password":
		switch tag {
		case tagPasswordMin:
			return "Password is too short"
		case "max":
			return "Password is too long"
		}
	case "fullName":
		if tag == "max" {
			return "Full name is too long"
		}
	}
	return field + " is invalid"
}

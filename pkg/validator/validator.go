package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"school-attendance/internal/model"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	weekdayTag  = "weekday"
	isoDateTag  = "isodate"
	phone10Tag  = "phone10"
)

var translator ut.Translator

// Register installs the custom tags and english messages on v.
// Field names in messages follow the json tag.
func Register(v *validator.Validate) error {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return err
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	validations := map[string]validator.Func{
		notBlankTag: notBlank,
		weekdayTag:  weekday,
		isoDateTag:  isoDate,
		phone10Tag:  phone10,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
		if err := v.RegisterTranslation(tag, translator, func(ut.Translator) error { return nil }, translateCustom); err != nil {
			return err
		}
	}
	return nil
}

// Translate turns a binding error into a message and per-field details.
// Errors that are not validation errors come back as their own text.
func Translate(err error) (string, map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || translator == nil {
		return err.Error(), nil
	}

	details := make(map[string]string, len(verrs))
	var first string
	for _, fe := range verrs {
		msg := fe.Translate(translator)
		details[fe.Field()] = msg
		if first == "" {
			first = msg
		}
	}
	return first, details
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case weekdayTag:
		return fe.Field() + " must be a day from Monday to Saturday"
	case isoDateTag:
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case phone10Tag:
		return fe.Field() + " must be exactly 10 digits"
	default:
		return fe.Error()
	}
}

// ── custom validators ──

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func weekday(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	for _, d := range model.Weekdays {
		if s == d {
			return true
		}
	}
	return false
}

func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func phone10(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

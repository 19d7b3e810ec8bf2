package wheel

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Option is one selectable outcome. Its position in the option list is its
// slot on the wheel.
type Option struct {
	Label   string `yaml:"label" json:"label" validate:"notblank"`
	Color   string `yaml:"color" json:"color" validate:"hexcolor,len=7"`
	Message string `yaml:"message" json:"message"`
}

// optionTable is the document shape of an option file.
type optionTable struct {
	Options []Option `yaml:"options" validate:"min=1,unique=Label,dive"`
}

// ErrAlreadySpinning is returned when a spin is requested while one is running.
var ErrAlreadySpinning = errors.New("wheel: spin already in progress")

// ConfigError reports an option list that cannot back a wheel.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wheel config: %s: %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that options is non-empty and that every label is present
// and unique and every color is a #rrggbb value.
func Validate(options []Option) error {
	err := validate.Struct(optionTable{Options: options})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "options", Reason: err.Error()}
	}
	return toConfigError(verrs[0], options)
}

func toConfigError(fe validator.FieldError, options []Option) *ConfigError {
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "min":
		return &ConfigError{Field: field, Reason: "at least one option is required"}
	case "unique":
		i, prev := duplicateLabel(options)
		return &ConfigError{
			Field:  fmt.Sprintf("options[%d].label", i),
			Reason: fmt.Sprintf("duplicate label %q (also options[%d])", options[i].Label, prev),
		}
	case "notblank":
		return &ConfigError{Field: field, Reason: "label is empty"}
	case "hexcolor", "len":
		return &ConfigError{Field: field, Reason: fmt.Sprintf("invalid color %q", fe.Value())}
	}
	return &ConfigError{Field: field, Reason: fmt.Sprintf("failed %q check", fe.Tag())}
}

// duplicateLabel returns the index of the first repeated label and the index
// it repeats.
func duplicateLabel(options []Option) (int, int) {
	seen := make(map[string]int, len(options))
	for i, opt := range options {
		if prev, ok := seen[opt.Label]; ok {
			return i, prev
		}
		seen[opt.Label] = i
	}
	return 0, 0
}

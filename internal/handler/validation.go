package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"stockdesk/internal/domain"
)

// RegisterValidators adds the adjustment rules to gin's binding validator.
// It must run before the router serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("adjtype", func(fl validator.FieldLevel) bool {
		return domain.AdjustmentType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("adjreason", func(fl validator.FieldLevel) bool {
		return domain.AdjustmentReason(fl.Field().String()).Valid()
	})
}

// bindingMessage turns validator errors into one readable line.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "adjtype":
			msgs = append(msgs, fmt.Sprintf("%s must be increase or decrease", field))
		case "adjreason":
			msgs = append(msgs, fmt.Sprintf("%s must be one of damaged, expired, lost, found, correction, other", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entry", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, ", ")
}

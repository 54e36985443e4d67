package validator

import (
	"log"
	"reflect"
	"regexp"

	"barber_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// phoneRe - цифры с необязательным "+" и разделителями: пробел, дефис, скобки
var phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{5,20}$`)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правила приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-visit-status", validateVisitStatus)
	mustRegister("is-review-status", validateReviewStatus)
	mustRegister("is-rating", validateRating)
	mustRegister("phone", validatePhone)
}

func intValue(fl validator.FieldLevel) (int64, bool) {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(f.Uint()), true
	default:
		return 0, false
	}
}

func validateVisitStatus(fl validator.FieldLevel) bool {
	n, ok := intValue(fl)
	return ok && models.VisitStatus(n).Valid()
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	n, ok := intValue(fl)
	return ok && models.ReviewStatus(n).Valid()
}

func validateRating(fl validator.FieldLevel) bool {
	n, ok := intValue(fl)
	return ok && models.Rating(n).Valid()
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	return phoneRe.MatchString(value)
}

package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError содержит карту ошибок "поле" -> "сообщение"
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errMsgs := make([]string, 0, len(fields))
	for _, field := range fields {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// Validator - обертка над go-playground/validator
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// В сообщениях используем имена из json-тегов, для HTML-форм - из form-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

// Validate возвращает *ValidationError, если структура невалидна
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	customErrors := make(map[string]string)
	for _, fe := range validationErrors {
		customErrors[fe.Field()] = v.getErrorMessage(fe)
	}

	return &ValidationError{Errors: customErrors}
}

// getErrorMessage - текст ошибки поля; показывается и в формах сайта, и в JSON админки
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "email":
		return "Введите корректный email"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Не меньше %s символов", fe.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("Выберите хотя бы %s", fe.Param())
		}
		return fmt.Sprintf("Не меньше %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Не больше %s символов", fe.Param())
		}
		return fmt.Sprintf("Не больше %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Должно быть больше %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Не меньше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "phone":
		return "Введите корректный номер телефона"
	case "is-visit-status":
		return "Неизвестный статус записи"
	case "is-review-status":
		return "Неизвестный статус отзыва"
	case "is-rating":
		return "Оценка должна быть от 1 до 5"
	default:
		return fmt.Sprintf("Некорректное значение (правило %s)", fe.Tag())
	}
}

package validator

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("geojson_area", validateGeoJSONArea)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// FieldErrors возвращает ошибки валидации в виде field -> tag
func FieldErrors(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// geojson_area: тип участка - Feature или FeatureCollection
func validateGeoJSONArea(fl validator.FieldLevel) bool {
	switch strings.TrimSpace(fl.Field().String()) {
	case "Feature", "FeatureCollection":
		return true
	default:
		return false
	}
}

package preference

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

// Params is the wire form of a preference record. Unknown option values are
// rejected by New.
type Params struct {
	Activities        []string `json:"selected_activities,omitempty" yaml:"selected_activities" validate:"omitempty,max=9,dive,oneof=culture adventure nature beaches nightlife cuisine wellness urban seclusion"`
	Budget            string   `json:"budget_level,omitempty" yaml:"budget_level" validate:"omitempty,oneof=Budget Mid-range Luxury"`
	ActivityThreshold int      `json:"activity_threshold" yaml:"activity_threshold" validate:"gte=0,lte=100"`
	SpecialFilters    []string `json:"special_filters,omitempty" yaml:"special_filters" validate:"omitempty,max=5,dive,oneof=Alcohol-free Halal-friendly Safe family_friendly airport_closeness"`
	Temperature       string   `json:"avg_temp_preference,omitempty" yaml:"avg_temp_preference" validate:"omitempty,oneof=warm moderate cold"`
	Duration          string   `json:"duration_col,omitempty" yaml:"duration_col" validate:"omitempty,oneof=short_trip weekend long_trip one_week day_trip"`
	TargetCity        string   `json:"target_city,omitempty" yaml:"target_city" validate:"omitempty,max=200"`
	ExcludeCities     []string `json:"exclude_cities,omitempty" yaml:"exclude_cities" validate:"omitempty,max=1000,dive,max=200"`
}

var (
	validateOnce    sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		// Report json names so errors match the request body.
		structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return structValidator
}

func (p Params) validate() error {
	err := getValidator().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPreferences, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidPreferences, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s exceeds maximum of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

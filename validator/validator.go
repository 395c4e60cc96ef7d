package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError is a single violated rule.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors holds every rule a payload violates.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

const (
	ruleHHMM          = "hhmm"
	ruleObjectID      = "objectid"
	ruleISODate       = "isodate"
	ruleSpeciality    = "speciality"
	ruleClassLevel    = "classlevel"
	ruleClassCategory = "classcategory"
	ruleClassFormat   = "classformat"
	ruleAfterStart    = "after"
)

var timeOfDay = regexp.MustCompile(`^(0[0-9]|1[0-9]|2[0-3]):[0-5][0-9]$`)

// Field rules, keyed by struct field. Patch rules below reuse the same
// constraints without "required".
var (
	instructorRules = map[string]string{
		"Name":             "required,min=3",
		"YogaSpecialities": "required,min=1,dive," + ruleSpeciality,
		"Email":            "required,email",
		"ClassIds":         "omitempty,dive," + ruleObjectID,
	}
	classLocationRules = map[string]string{
		"Name":         "required,min=3",
		"MaxCapacity":  "required,min=5",
		"Location":     "required,min=5",
		"ClassFormats": "required,min=1,dive," + ruleClassFormat,
		"ClassIDs":     "omitempty,dive," + ruleObjectID,
	}
	classRules = map[string]string{
		"InstructorId":    "required," + ruleObjectID,
		"Description":     "required,min=10",
		"ClassLocationId": "required," + ruleObjectID,
		"Date":            "required," + ruleISODate,
		"StartTime":       "required," + ruleHHMM,
		"EndTime":         "required," + ruleHHMM,
		"Level":           "required,min=1,dive," + ruleClassLevel,
		"Type":            "required,min=1,dive," + ruleSpeciality,
		"Category":        "required,min=1,dive," + ruleClassCategory,
		"ClassFormat":     "required," + ruleClassFormat,
		"SpacesAvailable": "required,min=0",
	}
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)

		mustRegister(v, ruleHHMM, func(fl validator.FieldLevel) bool {
			return timeOfDay.MatchString(fl.Field().String())
		})
		mustRegister(v, ruleObjectID, func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		mustRegister(v, ruleISODate, func(fl validator.FieldLevel) bool {
			_, err := db.ParseDate(fl.Field().String())
			return err == nil
		})
		mustRegister(v, ruleSpeciality, func(fl validator.FieldLevel) bool {
			return studio.YogaSpeciality(fl.Field().String()).IsValid()
		})
		mustRegister(v, ruleClassLevel, func(fl validator.FieldLevel) bool {
			return studio.ClassLevel(fl.Field().String()).IsValid()
		})
		mustRegister(v, ruleClassCategory, func(fl validator.FieldLevel) bool {
			return studio.ClassCategory(fl.Field().String()).IsValid()
		})
		mustRegister(v, ruleClassFormat, func(fl validator.FieldLevel) bool {
			return studio.ClassFormat(fl.Field().String()).IsValid()
		})

		v.RegisterStructValidationMapRules(instructorRules, restmodel.APIInstructor{})
		v.RegisterStructValidationMapRules(classLocationRules, restmodel.APIClassLocation{})
		v.RegisterStructValidationMapRules(classRules, restmodel.APIClass{})
		v.RegisterStructValidation(classTimesInOrder, restmodel.APIClass{})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// classTimesInOrder reports an end time that is not after the start time.
// Zero-padded HH:MM strings order the same way as the times they name.
func classTimesInOrder(sl validator.StructLevel) {
	c := sl.Current().Interface().(restmodel.APIClass)
	if c.StartTime == nil || c.EndTime == nil {
		return
	}
	if !timeOfDay.MatchString(*c.StartTime) || !timeOfDay.MatchString(*c.EndTime) {
		return
	}
	if *c.EndTime <= *c.StartTime {
		sl.ReportError(c.EndTime, "endTime", "EndTime", ruleAfterStart, "startTime")
	}
}

// ValidateInstructor checks an instructor payload against every rule.
func ValidateInstructor(in *restmodel.APIInstructor) ValidationErrors {
	return check(getValidator().Struct(in))
}

// ValidateClassLocation checks a class location payload against every
// rule.
func ValidateClassLocation(in *restmodel.APIClassLocation) ValidationErrors {
	return check(getValidator().Struct(in))
}

// ValidateClass checks a class payload against every rule, including that
// the end time is after the start time. Reference existence is not
// checked here.
func ValidateClass(in *restmodel.APIClass) ValidationErrors {
	return check(getValidator().Struct(in))
}

func check(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Rule: "invalid", Message: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: describe(fieldPath(fe), fe.Tag(), fe.Param(), fe.Kind()),
		})
	}
	return errs
}

// fieldPath drops the struct name from the namespace, leaving paths such
// as "level[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func describe(field, rule, param string, kind reflect.Kind) string {
	switch rule {
	case "required":
		return fmt.Sprintf("\"%s\" is required", field)
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("\"%s\" length must be at least %s characters long", field, param)
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("\"%s\" must contain at least %s items", field, param)
		default:
			return fmt.Sprintf("\"%s\" must be greater than or equal to %s", field, param)
		}
	case "email":
		return fmt.Sprintf("\"%s\" must be a valid email", field)
	case ruleHHMM:
		return fmt.Sprintf("\"%s\" must be a time in HH:MM format", field)
	case ruleObjectID:
		return fmt.Sprintf("\"%s\" must be a valid identifier", field)
	case ruleISODate:
		return fmt.Sprintf("\"%s\" must be a valid date", field)
	case ruleSpeciality:
		return enumMessage(field, studio.YogaSpecialities)
	case ruleClassLevel:
		return enumMessage(field, studio.ClassLevels)
	case ruleClassCategory:
		return enumMessage(field, studio.ClassCategories)
	case ruleClassFormat:
		return enumMessage(field, studio.ClassFormats)
	case ruleAfterStart:
		return fmt.Sprintf("\"%s\" must be later than \"%s\"", field, param)
	default:
		return fmt.Sprintf("\"%s\" failed the '%s' rule", field, rule)
	}
}

func enumMessage[T ~string](field string, values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return fmt.Sprintf("\"%s\" must be one of [%s]", field, strings.Join(names, ", "))
}

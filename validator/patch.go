package validator

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

// Rules applied to partial update values once they have been converted to
// their stored types. Identifier and date fields are checked by that
// conversion and have no entry here.
var (
	instructorPatchRules = map[string]string{
		"name":             "min=3",
		"yogaSpecialities": "min=1,dive," + ruleSpeciality,
		"email":            "email",
	}
	classLocationPatchRules = map[string]string{
		"name":         "min=3",
		"maxCapacity":  "min=5",
		"location":     "min=5",
		"classFormats": "min=1,dive," + ruleClassFormat,
	}
	classPatchRules = map[string]string{
		"description":     "min=10",
		"startTime":       ruleHHMM,
		"endTime":         ruleHHMM,
		"level":           "min=1,dive," + ruleClassLevel,
		"type":            "min=1,dive," + ruleSpeciality,
		"category":        "min=1,dive," + ruleClassCategory,
		"classFormat":     ruleClassFormat,
		"spacesAvailable": "min=0",
	}
)

// ValidateInstructorPatch checks converted partial update values for an
// instructor.
func ValidateInstructorPatch(values map[string]any) ValidationErrors {
	return checkPatch(instructorPatchRules, values)
}

// ValidateClassLocationPatch checks converted partial update values for a
// class location.
func ValidateClassLocationPatch(values map[string]any) ValidationErrors {
	return checkPatch(classLocationPatchRules, values)
}

// ValidateClassPatch checks converted partial update values for a class.
// The time order is only checked when both times are in the update.
func ValidateClassPatch(values map[string]any) ValidationErrors {
	errs := checkPatch(classPatchRules, values)

	start, startOK := values["startTime"].(string)
	end, endOK := values["endTime"].(string)
	if startOK && endOK && timeOfDay.MatchString(start) && timeOfDay.MatchString(end) && end <= start {
		errs = append(errs, ValidationError{
			Field:   "endTime",
			Rule:    ruleAfterStart,
			Message: describe("endTime", ruleAfterStart, "startTime", 0),
		})
	}
	return errs
}

func checkPatch(rules map[string]string, values map[string]any) ValidationErrors {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	v := getValidator()
	var errs ValidationErrors
	for _, key := range keys {
		rule, ok := rules[key]
		if !ok {
			continue
		}
		err := v.Var(values[key], rule)
		if err == nil {
			continue
		}
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs = append(errs, ValidationError{Field: key, Rule: "invalid", Message: err.Error()})
			continue
		}
		for _, fe := range fieldErrs {
			path := key + fe.Field()
			errs = append(errs, ValidationError{
				Field:   path,
				Rule:    fe.Tag(),
				Message: describe(path, fe.Tag(), fe.Param(), fe.Kind()),
			})
		}
	}
	return errs
}

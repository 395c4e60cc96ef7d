package model

import (
	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APIInstructor is the model to be returned by the API whenever
// instructors are fetched, and the body accepted when one is written.
type APIInstructor struct {
	Id               *string  `json:"_id,omitempty"`
	Name             *string  `json:"name"`
	YogaSpecialities []string `json:"yogaSpecialities"`
	Email            *string  `json:"email"`
	ClassIds         []string `json:"classIds"`
}

// BuildFromService converts from service level instructor.Instructor to
// an APIInstructor. A zero id is left out, as in listings.
func (a *APIInstructor) BuildFromService(i instructor.Instructor) {
	a.Id = idPtr(i.Id)
	a.Name = utility.ToStringPtr(i.Name)
	a.YogaSpecialities = make([]string, 0, len(i.YogaSpecialities))
	for _, s := range i.YogaSpecialities {
		a.YogaSpecialities = append(a.YogaSpecialities, string(s))
	}
	a.Email = utility.ToStringPtr(i.Email)
	a.ClassIds = idStrings(i.ClassIds)
}

// ToService returns a service layer instructor using the data from the
// APIInstructor. The id and back-reference list are carried over only
// when present.
func (a *APIInstructor) ToService() (*instructor.Instructor, error) {
	i := &instructor.Instructor{
		Name:  utility.FromStringPtr(a.Name),
		Email: utility.FromStringPtr(a.Email),
	}
	for _, s := range a.YogaSpecialities {
		i.YogaSpecialities = append(i.YogaSpecialities, studio.YogaSpeciality(s))
	}

	var err error
	if i.Id, err = parseIdPtr(a.Id); err != nil {
		return nil, errors.Wrap(err, "parsing instructor id")
	}
	if i.ClassIds, err = parseIds(a.ClassIds); err != nil {
		return nil, errors.Wrap(err, "parsing class ids")
	}
	return i, nil
}

// APIInstructorDetails is an instructor with the classes that name it.
type APIInstructorDetails struct {
	Instructor APIInstructor `json:"instructor"`
	Classes    []APIClass    `json:"classes"`
}

package model

import (
	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APIClassLocation is the model to be returned by the API whenever class
// locations are fetched, and the body accepted when one is written.
type APIClassLocation struct {
	Id           *string  `json:"_id,omitempty"`
	Name         *string  `json:"name"`
	MaxCapacity  *int     `json:"maxCapacity"`
	Location     *string  `json:"location"`
	ClassFormats []string `json:"classFormats"`
	ClassIDs     []string `json:"classIDs"`
}

// BuildFromService converts from service level location.ClassLocation to
// an APIClassLocation.
func (a *APIClassLocation) BuildFromService(l location.ClassLocation) {
	a.Id = idPtr(l.Id)
	a.Name = utility.ToStringPtr(l.Name)
	a.MaxCapacity = utility.ToIntPtr(l.MaxCapacity)
	a.Location = utility.ToStringPtr(l.Location)
	a.ClassFormats = make([]string, 0, len(l.ClassFormats))
	for _, f := range l.ClassFormats {
		a.ClassFormats = append(a.ClassFormats, string(f))
	}
	a.ClassIDs = idStrings(l.ClassIDs)
}

// ToService returns a service layer class location using the data from
// the APIClassLocation.
func (a *APIClassLocation) ToService() (*location.ClassLocation, error) {
	l := &location.ClassLocation{
		Name:        utility.FromStringPtr(a.Name),
		MaxCapacity: utility.FromIntPtr(a.MaxCapacity),
		Location:    utility.FromStringPtr(a.Location),
	}
	for _, f := range a.ClassFormats {
		l.ClassFormats = append(l.ClassFormats, studio.ClassFormat(f))
	}

	var err error
	if l.Id, err = parseIdPtr(a.Id); err != nil {
		return nil, errors.Wrap(err, "parsing class location id")
	}
	if l.ClassIDs, err = parseIds(a.ClassIDs); err != nil {
		return nil, errors.Wrap(err, "parsing class ids")
	}
	return l, nil
}

// APIClassLocationDetails is a class location with the classes held there.
type APIClassLocationDetails struct {
	ClassLocation APIClassLocation `json:"classLocation"`
	Classes       []APIClass       `json:"classes"`
}

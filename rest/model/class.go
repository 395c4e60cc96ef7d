package model

import (
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// DateFormat is how class dates are written in responses.
const DateFormat = "2006-01-02T15:04:05.000Z07:00"

// APIClass is the model to be returned by the API whenever classes are
// fetched, and the body accepted when one is written.
type APIClass struct {
	Id              *string  `json:"_id,omitempty"`
	InstructorId    *string  `json:"instructorId"`
	Description     *string  `json:"description"`
	ClassLocationId *string  `json:"classLocationId"`
	Date            *string  `json:"date"`
	StartTime       *string  `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	Level           []string `json:"level"`
	Type            []string `json:"type"`
	Category        []string `json:"category"`
	ClassFormat     *string  `json:"classFormat"`
	SpacesAvailable *int     `json:"spacesAvailable"`
}

// BuildFromService converts from service level class.Class to an APIClass.
func (a *APIClass) BuildFromService(c class.Class) {
	a.Id = idPtr(c.Id)
	a.InstructorId = idPtr(c.InstructorId)
	a.Description = utility.ToStringPtr(c.Description)
	a.ClassLocationId = idPtr(c.ClassLocationId)
	if !c.Date.IsZero() {
		a.Date = utility.ToStringPtr(c.Date.UTC().Format(DateFormat))
	}
	a.StartTime = utility.ToStringPtr(c.StartTime)
	a.EndTime = utility.ToStringPtr(c.EndTime)
	a.Level = make([]string, 0, len(c.Level))
	for _, l := range c.Level {
		a.Level = append(a.Level, string(l))
	}
	a.Type = make([]string, 0, len(c.Type))
	for _, t := range c.Type {
		a.Type = append(a.Type, string(t))
	}
	a.Category = make([]string, 0, len(c.Category))
	for _, cat := range c.Category {
		a.Category = append(a.Category, string(cat))
	}
	a.ClassFormat = utility.ToStringPtr(string(c.ClassFormat))
	a.SpacesAvailable = utility.ToIntPtr(c.SpacesAvailable)
}

// ToService returns a service layer class using the data from the
// APIClass. The payload is expected to have passed validation; malformed
// identifiers and dates are still reported as errors.
func (a *APIClass) ToService() (*class.Class, error) {
	c := &class.Class{
		Description:     utility.FromStringPtr(a.Description),
		StartTime:       utility.FromStringPtr(a.StartTime),
		EndTime:         utility.FromStringPtr(a.EndTime),
		ClassFormat:     studio.ClassFormat(utility.FromStringPtr(a.ClassFormat)),
		SpacesAvailable: utility.FromIntPtr(a.SpacesAvailable),
	}
	for _, l := range a.Level {
		c.Level = append(c.Level, studio.ClassLevel(l))
	}
	for _, t := range a.Type {
		c.Type = append(c.Type, studio.YogaSpeciality(t))
	}
	for _, cat := range a.Category {
		c.Category = append(c.Category, studio.ClassCategory(cat))
	}

	var err error
	if c.Id, err = parseIdPtr(a.Id); err != nil {
		return nil, errors.Wrap(err, "parsing class id")
	}
	if c.InstructorId, err = parseIdPtr(a.InstructorId); err != nil {
		return nil, errors.Wrap(err, "parsing instructor id")
	}
	if c.ClassLocationId, err = parseIdPtr(a.ClassLocationId); err != nil {
		return nil, errors.Wrap(err, "parsing class location id")
	}
	if a.Date != nil {
		var date time.Time
		if date, err = db.ParseDate(*a.Date); err != nil {
			return nil, errors.Wrap(err, "parsing class date")
		}
		c.Date = date
	}
	return c, nil
}

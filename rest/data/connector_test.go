package data

import (
	"context"
	"testing"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectorSuite struct {
	ctx      context.Context
	store    *db.MemoryStore
	settings *studio.Settings
	dc       *DBConnector
	suite.Suite
}

func TestConnectorSuite(t *testing.T) {
	suite.Run(t, new(ConnectorSuite))
}

func (s *ConnectorSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = db.NewMemoryStore()
	s.settings = &studio.Settings{}
	env, err := studio.NewStoreEnvironment(s.settings, s.store)
	s.Require().NoError(err)
	s.dc = NewDBConnector(env)
}

func (s *ConnectorSuite) createInstructor(name string) string {
	id, err := s.dc.CreateInstructor(s.ctx, &restmodel.APIInstructor{
		Name:             utility.ToStringPtr(name),
		YogaSpecialities: []string{"Hatha"},
		Email:            utility.ToStringPtr("staff@studio.ie"),
	})
	s.Require().NoError(err)
	return id
}

func (s *ConnectorSuite) createLocation(name string) string {
	id, err := s.dc.CreateClassLocation(s.ctx, &restmodel.APIClassLocation{
		Name:         utility.ToStringPtr(name),
		MaxCapacity:  utility.ToIntPtr(20),
		Location:     utility.ToStringPtr("Eyre Square, Galway"),
		ClassFormats: []string{"Location"},
	})
	s.Require().NoError(err)
	return id
}

func (s *ConnectorSuite) classPayload(instructorId, locationId string) *restmodel.APIClass {
	return &restmodel.APIClass{
		InstructorId:    utility.ToStringPtr(instructorId),
		Description:     utility.ToStringPtr("Power hour for strength"),
		ClassLocationId: utility.ToStringPtr(locationId),
		Date:            utility.ToStringPtr("2025-10-03"),
		StartTime:       utility.ToStringPtr("07:00"),
		EndTime:         utility.ToStringPtr("08:00"),
		Level:           []string{"Advanced"},
		Type:            []string{"Power Yoga"},
		Category:        []string{"Strength"},
		ClassFormat:     utility.ToStringPtr("Location"),
		SpacesAvailable: utility.ToIntPtr(15),
	}
}

func (s *ConnectorSuite) TestCreateInstructorKeepsOnlyProfileFields() {
	id, err := s.dc.CreateInstructor(s.ctx, &restmodel.APIInstructor{
		Name:             utility.ToStringPtr("Aoife"),
		YogaSpecialities: []string{"Yin"},
		Email:            utility.ToStringPtr("aoife@studio.ie"),
		ClassIds:         []string{primitive.NewObjectID().Hex()},
	})
	s.Require().NoError(err)

	details, err := s.dc.FindInstructorById(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, utility.FromStringPtr(details.Instructor.Id))
	s.Equal("Aoife", utility.FromStringPtr(details.Instructor.Name))
	s.Equal([]string{"Yin"}, details.Instructor.YogaSpecialities)
	s.Empty(details.Instructor.ClassIds)
	s.Empty(details.Classes)
}

func (s *ConnectorSuite) TestCreateInstructorValidationReportsEveryField() {
	_, err := s.dc.CreateInstructor(s.ctx, &restmodel.APIInstructor{Name: utility.ToStringPtr("Al")})
	s.Require().Error(err)
	s.Equal(ValidationError, KindOf(err))

	dataErr := err.(*Error)
	s.Len(dataErr.Errors, 3)

	all, err := s.dc.FindInstructors(s.ctx, ListOptions{})
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ConnectorSuite) TestFindInstructorsSortsAndPages() {
	for _, name := range []string{"Zoe", "Aoife", "Maeve", "Brid"} {
		s.createInstructor(name)
	}

	all, err := s.dc.FindInstructors(s.ctx, ListOptions{PageSize: 0})
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	names := []string{}
	for _, i := range all {
		names = append(names, utility.FromStringPtr(i.Name))
		s.Nil(i.Id)
	}
	s.Equal([]string{"Aoife", "Brid", "Maeve", "Zoe"}, names)

	page, err := s.dc.FindInstructors(s.ctx, ListOptions{Page: 2, PageSize: 3})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("Zoe", utility.FromStringPtr(page[0].Name))

	filtered, err := s.dc.FindInstructors(s.ctx, ListOptions{Filter: `{"name": "Maeve"}`})
	s.Require().NoError(err)
	s.Len(filtered, 1)
}

func (s *ConnectorSuite) TestFindWithBadFilters() {
	_, err := s.dc.FindInstructors(s.ctx, ListOptions{Filter: `{"name": `})
	s.Equal(MalformedFilter, KindOf(err))

	_, err = s.dc.FindClassLocations(s.ctx, ListOptions{Filter: `{"maxCapacity": "big"}`})
	s.Equal(InvalidFilter, KindOf(err))

	_, err = s.dc.FindClasses(s.ctx, ListOptions{Filter: `{"instructorId": "nope"}`})
	s.Equal(InvalidFilter, KindOf(err))
}

func (s *ConnectorSuite) TestFindByIdErrors() {
	_, err := s.dc.FindInstructorById(s.ctx, "not-an-id")
	s.Equal(MalformedIdentifier, KindOf(err))
	s.Contains(err.Error(), "Invalid instructor ID format")

	_, err = s.dc.FindClassLocationById(s.ctx, primitive.NewObjectID().Hex())
	s.Equal(NotFound, KindOf(err))

	_, err = s.dc.FindClassById(s.ctx, primitive.NewObjectID().Hex())
	s.Equal(NotFound, KindOf(err))
}

func (s *ConnectorSuite) TestClassLifecycle() {
	instructorId := s.createInstructor("Aoife")
	locationId := s.createLocation("Studio A")

	classId, err := s.dc.CreateClass(s.ctx, s.classPayload(instructorId, locationId))
	s.Require().NoError(err)

	c, err := s.dc.FindClassById(s.ctx, classId)
	s.Require().NoError(err)
	s.Equal(instructorId, utility.FromStringPtr(c.InstructorId))
	s.Equal("2025-10-03T00:00:00.000Z", utility.FromStringPtr(c.Date))

	instructorDetails, err := s.dc.FindInstructorById(s.ctx, instructorId)
	s.Require().NoError(err)
	s.Equal([]string{classId}, instructorDetails.Instructor.ClassIds)
	s.Require().Len(instructorDetails.Classes, 1)
	s.Equal(classId, utility.FromStringPtr(instructorDetails.Classes[0].Id))

	locationDetails, err := s.dc.FindClassLocationById(s.ctx, locationId)
	s.Require().NoError(err)
	s.Equal([]string{classId}, locationDetails.ClassLocation.ClassIDs)
	s.Len(locationDetails.Classes, 1)

	s.Require().NoError(s.dc.RemoveClass(s.ctx, classId))

	instructorDetails, err = s.dc.FindInstructorById(s.ctx, instructorId)
	s.Require().NoError(err)
	s.Empty(instructorDetails.Instructor.ClassIds)
	s.Empty(instructorDetails.Classes)

	locationDetails, err = s.dc.FindClassLocationById(s.ctx, locationId)
	s.Require().NoError(err)
	s.Empty(locationDetails.ClassLocation.ClassIDs)

	err = s.dc.RemoveClass(s.ctx, classId)
	s.Equal(NotFound, KindOf(err))
}

func (s *ConnectorSuite) TestCreateClassWithDanglingReference() {
	locationId := s.createLocation("Studio A")

	_, err := s.dc.CreateClass(s.ctx, s.classPayload(primitive.NilObjectID.Hex(), locationId))
	s.Require().Error(err)
	s.Equal(ReferenceNotFound, KindOf(err))
	s.Equal("No instructor found with instructor id 000000000000000000000000", err.Error())

	classes, err := class.Find(s.ctx, s.store, class.All)
	s.Require().NoError(err)
	s.Empty(classes)

	l, err := location.FindOneId(s.ctx, s.store, mustParse(s, locationId))
	s.Require().NoError(err)
	s.Empty(l.ClassIDs)
}

func (s *ConnectorSuite) TestCreateClassTransactional() {
	s.settings.Links.Mode = studio.LinkModeTransactional
	instructorId := s.createInstructor("Aoife")
	locationId := s.createLocation("Studio A")

	classId, err := s.dc.CreateClass(s.ctx, s.classPayload(instructorId, locationId))
	s.Require().NoError(err)

	i, err := instructor.FindOneId(s.ctx, s.store, mustParse(s, instructorId))
	s.Require().NoError(err)
	s.True(i.HasClass(mustParse(s, classId)))
}

func (s *ConnectorSuite) TestReplace() {
	id := s.createInstructor("Aoife")
	in := &restmodel.APIInstructor{
		Name:             utility.ToStringPtr("Aoife"),
		YogaSpecialities: []string{"Hatha"},
		Email:            utility.ToStringPtr("staff@studio.ie"),
	}

	changed, err := s.dc.ReplaceInstructor(s.ctx, id, in)
	s.Require().NoError(err)
	s.False(changed)

	in.Email = utility.ToStringPtr("aoife@studio.ie")
	changed, err = s.dc.ReplaceInstructor(s.ctx, id, in)
	s.Require().NoError(err)
	s.True(changed)

	_, err = s.dc.ReplaceInstructor(s.ctx, "bad", in)
	s.Equal(MalformedIdentifier, KindOf(err))

	in.Email = utility.ToStringPtr("nope")
	_, err = s.dc.ReplaceInstructor(s.ctx, id, in)
	s.Equal(ValidationError, KindOf(err))
}

func (s *ConnectorSuite) TestPatchInstructorDropsUnknownFields() {
	id := s.createInstructor("Aoife")

	changed, err := s.dc.PatchInstructor(s.ctx, id, map[string]any{"email": "new@x.com", "unknownField": "x"})
	s.Require().NoError(err)
	s.True(changed)

	stored, err := s.store.Count(s.ctx, instructor.Collection, map[string]any{"unknownField": "x"})
	s.Require().NoError(err)
	s.Zero(stored)

	details, err := s.dc.FindInstructorById(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("new@x.com", utility.FromStringPtr(details.Instructor.Email))

	_, err = s.dc.PatchInstructor(s.ctx, id, map[string]any{"unknownField": "x"})
	s.Equal(NoValidFields, KindOf(err))
	s.Equal("No valid fields provided for update.", err.Error())

	changed, err = s.dc.PatchInstructor(s.ctx, primitive.NewObjectID().Hex(), map[string]any{"name": "Nobody"})
	s.Require().NoError(err)
	s.False(changed)
}

func (s *ConnectorSuite) TestPatchTypeAndStrictChecks() {
	id := s.createLocation("Studio A")

	_, err := s.dc.PatchClassLocation(s.ctx, id, map[string]any{"maxCapacity": "many"})
	s.Equal(ValidationError, KindOf(err))

	changed, err := s.dc.PatchClassLocation(s.ctx, id, map[string]any{"maxCapacity": float64(2)})
	s.Require().NoError(err)
	s.True(changed, "values are not checked against field rules by default")

	s.settings.Api.StrictPatch = true
	_, err = s.dc.PatchClassLocation(s.ctx, id, map[string]any{"maxCapacity": float64(3)})
	s.Equal(ValidationError, KindOf(err))
}

func (s *ConnectorSuite) TestPatchClassHasNoAllowList() {
	instructorId := s.createInstructor("Aoife")
	locationId := s.createLocation("Studio A")
	classId, err := s.dc.CreateClass(s.ctx, s.classPayload(instructorId, locationId))
	s.Require().NoError(err)

	changed, err := s.dc.PatchClass(s.ctx, classId, map[string]any{
		"_id":             primitive.NewObjectID().Hex(),
		"spacesAvailable": float64(3),
		"room":            "upstairs",
	})
	s.Require().NoError(err)
	s.True(changed)

	n, err := s.store.Count(s.ctx, class.Collection, map[string]any{"room": "upstairs", "_id": mustParse(s, classId)})
	s.Require().NoError(err)
	s.Equal(1, n)

	c, err := s.dc.FindClassById(s.ctx, classId)
	s.Require().NoError(err)
	s.Equal(3, utility.FromIntPtr(c.SpacesAvailable))

	_, err = s.dc.PatchClass(s.ctx, classId, map[string]any{"_id": "x"})
	s.Equal(NoValidFields, KindOf(err))
}

func (s *ConnectorSuite) TestRemoveParentDoesNotCascade() {
	instructorId := s.createInstructor("Aoife")
	locationId := s.createLocation("Studio A")
	classId, err := s.dc.CreateClass(s.ctx, s.classPayload(instructorId, locationId))
	s.Require().NoError(err)

	s.Require().NoError(s.dc.RemoveInstructor(s.ctx, instructorId))
	s.Equal(NotFound, KindOf(s.dc.RemoveInstructor(s.ctx, instructorId)))
	s.Equal(MalformedIdentifier, KindOf(s.dc.RemoveClassLocation(s.ctx, "123")))

	c, err := s.dc.FindClassById(s.ctx, classId)
	s.Require().NoError(err)
	s.Equal(instructorId, utility.FromStringPtr(c.InstructorId))
}

func mustParse(s *ConnectorSuite, id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	s.Require().NoError(err)
	return oid
}

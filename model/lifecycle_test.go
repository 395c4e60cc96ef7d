package model

import (
	"context"
	"testing"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// flakyStore fails back-reference updates on one collection a fixed
// number of times.
type flakyStore struct {
	db.Store
	collection string
	failures   int
	calls      int
}

func (s *flakyStore) UpdateId(ctx context.Context, collection string, id, update any) (*db.ChangeInfo, error) {
	if collection == s.collection {
		s.calls++
		if s.calls <= s.failures {
			return nil, errors.New("connection reset")
		}
	}
	return s.Store.UpdateId(ctx, collection, id, update)
}

type LifecycleSuite struct {
	ctx        context.Context
	store      *db.MemoryStore
	instructor *instructor.Instructor
	location   *location.ClassLocation
	suite.Suite
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = db.NewMemoryStore()

	s.instructor = &instructor.Instructor{
		Name:             "Aoife",
		Email:            "aoife@studio.ie",
		YogaSpecialities: []studio.YogaSpeciality{studio.SpecialityYin},
	}
	s.Require().NoError(s.instructor.Insert(s.ctx, s.store))

	s.location = &location.ClassLocation{
		Name:         "Studio A",
		MaxCapacity:  20,
		Location:     "Shop Street, Galway",
		ClassFormats: []studio.ClassFormat{studio.FormatBoth},
	}
	s.Require().NoError(s.location.Insert(s.ctx, s.store))
}

func (s *LifecycleSuite) newClass() *class.Class {
	return &class.Class{
		InstructorId:    s.instructor.Id,
		ClassLocationId: s.location.Id,
		Description:     "Slow evening yin",
		Date:            time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		EndTime:         "19:15",
		Level:           []studio.ClassLevel{studio.LevelBeginner},
		Type:            []studio.YogaSpeciality{studio.SpecialityYin},
		Category:        []studio.ClassCategory{studio.CategoryRelaxation},
		ClassFormat:     studio.FormatLocation,
		SpacesAvailable: 12,
	}
}

func (s *LifecycleSuite) assertLinked(classId primitive.ObjectID, linked bool) {
	i, err := instructor.FindOneId(s.ctx, s.store, s.instructor.Id)
	s.Require().NoError(err)
	s.Equal(linked, i.HasClass(classId))

	l, err := location.FindOneId(s.ctx, s.store, s.location.Id)
	s.Require().NoError(err)
	s.Equal(linked, l.HasClass(classId))
}

func (s *LifecycleSuite) countClasses() int {
	classes, err := class.Find(s.ctx, s.store, class.All)
	s.Require().NoError(err)
	return len(classes)
}

func (s *LifecycleSuite) TestParseId() {
	id := primitive.NewObjectID()
	parsed, err := ParseId(id.Hex())
	s.NoError(err)
	s.Equal(id, parsed)

	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, err = ParseId(bad)
		s.True(IsMalformedIdentifier(err), bad)
	}
}

func (s *LifecycleSuite) TestCreateClassLinksBothParents() {
	for _, mode := range []studio.LinkMode{studio.LinkModeBestEffort, studio.LinkModeTransactional} {
		c := s.newClass()
		s.Require().NoError(CreateClass(s.ctx, s.store, c, LinkOptions{Mode: mode, RetryAttempts: 1}))
		s.False(c.Id.IsZero())
		s.assertLinked(c.Id, true)
	}
	s.Equal(2, s.countClasses())
}

func (s *LifecycleSuite) TestCreateClassWithMissingInstructor() {
	c := s.newClass()
	c.InstructorId = primitive.NilObjectID

	err := CreateClass(s.ctx, s.store, c, LinkOptions{Mode: studio.LinkModeBestEffort})
	s.Require().Error(err)
	s.True(IsMissingReference(err))
	s.Equal("No instructor found with instructor id 000000000000000000000000", errors.Cause(err).Error())
	s.Zero(s.countClasses())

	l, err := location.FindOneId(s.ctx, s.store, s.location.Id)
	s.Require().NoError(err)
	s.Empty(l.ClassIDs)
}

func (s *LifecycleSuite) TestCreateClassWithMissingLocation() {
	c := s.newClass()
	c.ClassLocationId = primitive.NewObjectID()

	err := CreateClass(s.ctx, s.store, c, LinkOptions{Mode: studio.LinkModeTransactional})
	s.Require().Error(err)
	s.True(IsMissingReference(err))
	s.Contains(err.Error(), "No class location found with class location id "+c.ClassLocationId.Hex())
	s.Zero(s.countClasses())
}

func (s *LifecycleSuite) TestBestEffortLinkFailureKeepsClass() {
	store := &flakyStore{Store: s.store, collection: location.Collection, failures: 10}
	c := s.newClass()

	s.Require().NoError(CreateClass(s.ctx, store, c, LinkOptions{Mode: studio.LinkModeBestEffort, RetryAttempts: 1}))
	s.Equal(1, s.countClasses())

	i, err := instructor.FindOneId(s.ctx, s.store, s.instructor.Id)
	s.Require().NoError(err)
	s.True(i.HasClass(c.Id))
	l, err := location.FindOneId(s.ctx, s.store, s.location.Id)
	s.Require().NoError(err)
	s.False(l.HasClass(c.Id))
}

func (s *LifecycleSuite) TestBestEffortRetriesLinkUpdates() {
	store := &flakyStore{Store: s.store, collection: location.Collection, failures: 2}
	c := s.newClass()

	opts := LinkOptions{
		Mode:          studio.LinkModeBestEffort,
		RetryAttempts: 3,
		MinDelay:      time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
	s.Require().NoError(CreateClass(s.ctx, store, c, opts))
	s.Equal(3, store.calls)
	s.assertLinked(c.Id, true)
}

func (s *LifecycleSuite) TestTransactionalLinkFailureRollsBack() {
	store := &flakyStore{Store: s.store, collection: location.Collection, failures: 1}
	c := s.newClass()

	s.Require().Error(CreateClass(s.ctx, store, c, LinkOptions{Mode: studio.LinkModeTransactional}))
	s.Zero(s.countClasses())
	s.assertLinked(c.Id, false)
}

func (s *LifecycleSuite) TestRemoveClassPullsBothParents() {
	opts := LinkOptions{Mode: studio.LinkModeBestEffort, RetryAttempts: 1}
	keep, drop := s.newClass(), s.newClass()
	s.Require().NoError(CreateClass(s.ctx, s.store, keep, opts))
	s.Require().NoError(CreateClass(s.ctx, s.store, drop, opts))

	existed, err := RemoveClass(s.ctx, s.store, drop.Id, opts)
	s.Require().NoError(err)
	s.True(existed)
	s.assertLinked(drop.Id, false)
	s.assertLinked(keep.Id, true)
	s.Equal(1, s.countClasses())
}

func (s *LifecycleSuite) TestRemoveMissingClassChangesNothing() {
	opts := LinkOptions{Mode: studio.LinkModeTransactional}
	c := s.newClass()
	s.Require().NoError(CreateClass(s.ctx, s.store, c, opts))

	existed, err := RemoveClass(s.ctx, s.store, primitive.NewObjectID(), opts)
	s.Require().NoError(err)
	s.False(existed)
	s.assertLinked(c.Id, true)
	s.Equal(1, s.countClasses())
}

func (s *LifecycleSuite) TestRemoveClassWithDeletedParent() {
	opts := LinkOptions{Mode: studio.LinkModeTransactional}
	c := s.newClass()
	s.Require().NoError(CreateClass(s.ctx, s.store, c, opts))

	_, err := instructor.Remove(s.ctx, s.store, s.instructor.Id)
	s.Require().NoError(err)

	existed, err := RemoveClass(s.ctx, s.store, c.Id, opts)
	s.Require().NoError(err)
	s.True(existed)
	s.Zero(s.countClasses())

	l, err := location.FindOneId(s.ctx, s.store, s.location.Id)
	s.Require().NoError(err)
	s.False(l.HasClass(c.Id))
}

func (s *LifecycleSuite) TestNewLinkOptions() {
	conf := studio.LinksConfig{Mode: studio.LinkModeTransactional, RetryAttempts: 4, RetryMinDelayMS: 50, RetryMaxDelayMS: 400}
	opts := NewLinkOptions(conf)
	s.Equal(studio.LinkModeTransactional, opts.Mode)
	s.Equal(4, opts.RetryAttempts)
	s.Equal(50*time.Millisecond, opts.MinDelay)
	s.Equal(400*time.Millisecond, opts.MaxDelay)
}

package model

import (
	"context"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// interleavingStore runs a hook before the nth read of the classes
// collection, standing in for a request that lands during a pass.
type interleavingStore struct {
	db.Store
	reads int
	hooks map[int]func()
}

func (s *interleavingStore) FindAllQ(ctx context.Context, collection string, q db.Q, out any) error {
	if collection == class.Collection {
		s.reads++
		if hook := s.hooks[s.reads]; hook != nil {
			hook()
		}
	}
	return s.Store.FindAllQ(ctx, collection, q, out)
}

func (s *LifecycleSuite) TestReconcileRepairsBackReferences() {
	// a class stored without links, as a best-effort failure leaves it
	unlinked := s.newClass()
	s.Require().NoError(unlinked.Insert(s.ctx, s.store))

	// a link to a class that no longer exists
	deleted := primitive.NewObjectID()
	s.Require().NoError(instructor.AddClass(s.ctx, s.store, s.instructor.Id, deleted))
	s.Require().NoError(location.AddClass(s.ctx, s.store, s.location.Id, deleted))

	// a link left behind after a class moved to another instructor
	other := &instructor.Instructor{Name: "Maeve"}
	s.Require().NoError(other.Insert(s.ctx, s.store))
	moved := s.newClass()
	s.Require().NoError(CreateClass(s.ctx, s.store, moved, LinkOptions{}))
	_, err := class.UpdateOne(s.ctx, s.store, moved.Id, bson.M{"$set": bson.M{class.InstructorIdKey: other.Id}})
	s.Require().NoError(err)

	// a class whose location was deleted
	gone := &location.ClassLocation{Name: "Pop-up"}
	s.Require().NoError(gone.Insert(s.ctx, s.store))
	orphan := s.newClass()
	orphan.ClassLocationId = gone.Id
	s.Require().NoError(CreateClass(s.ctx, s.store, orphan, LinkOptions{}))
	_, err = location.Remove(s.ctx, s.store, gone.Id)
	s.Require().NoError(err)

	stats, err := ReconcileClassLinks(s.ctx, s.store)
	s.Require().NoError(err)
	s.Equal(3, stats.Classes)
	// unlinked on both parents, moved on its new instructor
	s.Equal(3, stats.Added)
	// deleted on both parents, moved on its old instructor
	s.Equal(3, stats.Pruned)
	s.Equal(1, stats.Dangling)

	i, err := instructor.FindOneId(s.ctx, s.store, s.instructor.Id)
	s.Require().NoError(err)
	s.ElementsMatch([]primitive.ObjectID{unlinked.Id, orphan.Id}, i.ClassIds)

	o, err := instructor.FindOneId(s.ctx, s.store, other.Id)
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{moved.Id}, o.ClassIds)

	l, err := location.FindOneId(s.ctx, s.store, s.location.Id)
	s.Require().NoError(err)
	s.ElementsMatch([]primitive.ObjectID{unlinked.Id, moved.Id}, l.ClassIDs)

	again, err := ReconcileClassLinks(s.ctx, s.store)
	s.Require().NoError(err)
	s.Zero(again.Added)
	s.Zero(again.Pruned)
	s.Equal(1, again.Dangling)
}

func (s *LifecycleSuite) TestReconcileKeepsClassCreatedDuringPass() {
	created := s.newClass()
	store := &interleavingStore{Store: s.store, hooks: map[int]func(){
		// after the parents are read, before the classes are
		1: func() { s.Require().NoError(CreateClass(s.ctx, s.store, created, LinkOptions{})) },
	}}

	stats, err := ReconcileClassLinks(s.ctx, store)
	s.Require().NoError(err)
	s.Equal(1, stats.Classes)
	s.Zero(stats.Pruned)
	s.assertLinked(created.Id, true)

	i, err := instructor.FindOneId(s.ctx, s.store, s.instructor.Id)
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{created.Id}, i.ClassIds)
}

func (s *LifecycleSuite) TestReconcileDoesNotRelinkClassDeletedDuringPass() {
	unlinked := s.newClass()
	s.Require().NoError(unlinked.Insert(s.ctx, s.store))

	linked := s.newClass()
	s.Require().NoError(CreateClass(s.ctx, s.store, linked, LinkOptions{}))

	store := &interleavingStore{Store: s.store, hooks: map[int]func(){
		// before the classes are read
		1: func() {
			removed, err := RemoveClass(s.ctx, s.store, linked.Id, LinkOptions{})
			s.Require().NoError(err)
			s.Require().True(removed)
		},
		// after the classes are read, before the instructor links are
		// written
		2: func() {
			removed, err := RemoveClass(s.ctx, s.store, unlinked.Id, LinkOptions{})
			s.Require().NoError(err)
			s.Require().True(removed)
		},
	}}

	stats, err := ReconcileClassLinks(s.ctx, store)
	s.Require().NoError(err)
	s.Zero(stats.Added)
	s.assertLinked(unlinked.Id, false)
	s.assertLinked(linked.Id, false)
	s.Zero(s.countClasses())
}

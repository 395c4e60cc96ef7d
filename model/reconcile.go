package model

import (
	"context"
	"slices"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// ReconcileStats summarizes one reconciliation pass.
type ReconcileStats struct {
	Classes int `json:"classes"`
	// Added counts back-references written for classes missing from
	// their parent's list.
	Added int `json:"added"`
	// Pruned counts back-references removed because the class is gone or
	// names a different parent.
	Pruned int `json:"pruned"`
	// Dangling counts class references to parents that do not exist.
	// These are reported, not repaired.
	Dangling int `json:"dangling"`
}

type linkFunc func(context.Context, db.Store, primitive.ObjectID, primitive.ObjectID) error

type parentLinks struct {
	collection string
	// current holds each stored parent's back-reference list
	current map[primitive.ObjectID][]primitive.ObjectID
	// want holds the classes that name each parent
	want      map[primitive.ObjectID][]primitive.ObjectID
	add       linkFunc
	remove    linkFunc
	removeAll func(context.Context, db.Store, []primitive.ObjectID) (int, error)
}

// ReconcileClassLinks brings every instructor's and class location's
// back-reference list in line with the stored classes. Parents are read
// before classes, so a class linked by a concurrent request is always
// seen. Class ids are checked again just before any write; a class
// deleted after that check may keep a stale link until the next pass.
func ReconcileClassLinks(ctx context.Context, store db.Store) (*ReconcileStats, error) {
	var (
		instructors []instructor.Instructor
		locations   []location.ClassLocation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		instructors, err = instructor.Find(gctx, store, instructor.BackReferences)
		return errors.Wrap(err, "finding instructor back-references")
	})
	g.Go(func() error {
		var err error
		locations, err = location.Find(gctx, store, location.BackReferences)
		return errors.Wrap(err, "finding class location back-references")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	classes, err := class.Find(ctx, store, class.References)
	if err != nil {
		return nil, errors.Wrap(err, "finding class references")
	}

	stats := &ReconcileStats{Classes: len(classes)}
	exists := make(map[primitive.ObjectID]bool, len(classes))
	byInstructor := map[primitive.ObjectID][]primitive.ObjectID{}
	byLocation := map[primitive.ObjectID][]primitive.ObjectID{}
	for _, c := range classes {
		exists[c.Id] = true
		byInstructor[c.InstructorId] = append(byInstructor[c.InstructorId], c.Id)
		byLocation[c.ClassLocationId] = append(byLocation[c.ClassLocationId], c.Id)
	}

	instructorLinks := parentLinks{
		collection: instructor.Collection,
		current:    make(map[primitive.ObjectID][]primitive.ObjectID, len(instructors)),
		want:       byInstructor,
		add:        instructor.AddClass,
		remove:     instructor.RemoveClass,
		removeAll:  instructor.RemoveClasses,
	}
	for _, i := range instructors {
		instructorLinks.current[i.Id] = i.ClassIds
	}
	locationLinks := parentLinks{
		collection: location.Collection,
		current:    make(map[primitive.ObjectID][]primitive.ObjectID, len(locations)),
		want:       byLocation,
		add:        location.AddClass,
		remove:     location.RemoveClass,
		removeAll:  location.RemoveClasses,
	}
	for _, l := range locations {
		locationLinks.current[l.Id] = l.ClassIDs
	}

	catcher := grip.NewBasicCatcher()
	catcher.Add(instructorLinks.reconcile(ctx, store, exists, stats))
	catcher.Add(locationLinks.reconcile(ctx, store, exists, stats))

	grip.Info(message.Fields{
		"message":  "reconciled class back-references",
		"classes":  stats.Classes,
		"added":    stats.Added,
		"pruned":   stats.Pruned,
		"dangling": stats.Dangling,
		"errors":   catcher.Len(),
	})

	return stats, catcher.Resolve()
}

func (p *parentLinks) reconcile(ctx context.Context, store db.Store, exists map[primitive.ObjectID]bool, stats *ReconcileStats) error {
	type link struct{ parentId, classId primitive.ObjectID }
	var (
		missing  []link
		moved    []link
		gone     []primitive.ObjectID
		goneRefs = map[primitive.ObjectID]int{}
	)

	for parentId, classIds := range p.want {
		have, ok := p.current[parentId]
		if !ok {
			stats.Dangling += len(classIds)
			grip.Debug(message.Fields{
				"message":    "classes reference a missing parent",
				"collection": p.collection,
				"parent_id":  parentId.Hex(),
				"classes":    len(classIds),
			})
			continue
		}
		for _, classId := range classIds {
			if !slices.Contains(have, classId) {
				missing = append(missing, link{parentId: parentId, classId: classId})
			}
		}
	}
	for parentId, have := range p.current {
		for _, classId := range have {
			switch {
			case !exists[classId]:
				if goneRefs[classId] == 0 {
					gone = append(gone, classId)
				}
				goneRefs[classId]++
			case !slices.Contains(p.want[parentId], classId):
				moved = append(moved, link{parentId: parentId, classId: classId})
			}
		}
	}
	if len(missing) == 0 && len(moved) == 0 && len(gone) == 0 {
		return nil
	}

	candidates := slices.Clone(gone)
	for _, l := range missing {
		candidates = append(candidates, l.classId)
	}
	stored, err := class.FindIds(ctx, store, candidates)
	if err != nil {
		return errors.Wrapf(err, "checking classes for '%s'", p.collection)
	}

	catcher := grip.NewBasicCatcher()
	for _, l := range missing {
		if !stored[l.classId] {
			continue
		}
		if err := p.add(ctx, store, l.parentId, l.classId); err != nil {
			catcher.Add(err)
			continue
		}
		stats.Added++
	}
	for _, l := range moved {
		if err := p.remove(ctx, store, l.parentId, l.classId); err != nil {
			catcher.Add(err)
			continue
		}
		stats.Pruned++
	}

	gone = slices.DeleteFunc(gone, func(id primitive.ObjectID) bool { return stored[id] })
	if len(gone) > 0 {
		if _, err := p.removeAll(ctx, store, gone); err != nil {
			catcher.Add(err)
		} else {
			for _, id := range gone {
				stats.Pruned += goneRefs[id]
			}
		}
	}

	return errors.Wrapf(catcher.Resolve(), "reconciling '%s'", p.collection)
}

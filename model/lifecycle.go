package model

import (
	"context"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	linkOpAdd    = "add"
	linkOpRemove = "remove"
)

var linkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yoga_studio_link_update_failures_total",
	Help: "Class back-reference updates that failed after every attempt",
}, []string{"collection", "operation"})

// LinkOptions controls how class back-references are written when a
// class is created or removed.
type LinkOptions struct {
	Mode          studio.LinkMode
	RetryAttempts int
	MinDelay      time.Duration
	MaxDelay      time.Duration
}

// NewLinkOptions builds LinkOptions from the links settings section.
func NewLinkOptions(conf studio.LinksConfig) LinkOptions {
	return LinkOptions{
		Mode:          conf.Mode,
		RetryAttempts: conf.RetryAttempts,
		MinDelay:      conf.RetryMinDelay(),
		MaxDelay:      conf.RetryMaxDelay(),
	}
}

func (o LinkOptions) transactional() bool {
	return o.Mode == studio.LinkModeTransactional
}

// backLink is one update to a parent's back-reference list.
type backLink struct {
	collection string
	op         string
	parentId   primitive.ObjectID
	apply      func(context.Context, db.Store, primitive.ObjectID, primitive.ObjectID) error
}

func addLinks(c *class.Class) []backLink {
	return []backLink{
		{collection: instructor.Collection, op: linkOpAdd, parentId: c.InstructorId, apply: instructor.AddClass},
		{collection: location.Collection, op: linkOpAdd, parentId: c.ClassLocationId, apply: location.AddClass},
	}
}

func removeLinks(c *class.Class) []backLink {
	return []backLink{
		{collection: instructor.Collection, op: linkOpRemove, parentId: c.InstructorId, apply: instructor.RemoveClass},
		{collection: location.Collection, op: linkOpRemove, parentId: c.ClassLocationId, apply: location.RemoveClass},
	}
}

// CreateClass checks that the class's instructor and class location exist,
// stores the class, and adds its id to both parents' back-reference lists.
//
// In best-effort mode a failed back-reference update is logged and
// counted but does not fail the call, so the class may be stored without
// its links. In transactional mode every write happens in one transaction
// and any failure undoes all of them.
func CreateClass(ctx context.Context, store db.Store, c *class.Class, opts LinkOptions) error {
	create := func(ctx context.Context) error {
		if err := CheckReferences(ctx, store, c); err != nil {
			return err
		}
		if err := c.Insert(ctx, store); err != nil {
			return errors.WithStack(err)
		}
		return opts.maintain(ctx, store, c.Id, addLinks(c))
	}

	if opts.transactional() {
		return store.WithTransaction(ctx, create)
	}
	return create(ctx)
}

// RemoveClass deletes the class and pulls its id from its instructor's and
// class location's back-reference lists, reporting whether the class
// existed. A missing class is left alone.
func RemoveClass(ctx context.Context, store db.Store, id primitive.ObjectID, opts LinkOptions) (bool, error) {
	var existed bool
	remove := func(ctx context.Context) error {
		existed = false
		c, err := class.FindOneId(ctx, store, id)
		if err != nil {
			return errors.WithStack(err)
		}
		if c == nil {
			return nil
		}
		removed, err := class.Remove(ctx, store, id)
		if err != nil {
			return errors.WithStack(err)
		}
		if !removed {
			return nil
		}
		existed = true
		return opts.maintain(ctx, store, c.Id, removeLinks(c))
	}

	var err error
	if opts.transactional() {
		err = store.WithTransaction(ctx, remove)
	} else {
		err = remove(ctx)
	}
	if err != nil {
		return false, err
	}
	return existed, nil
}

func (o LinkOptions) maintain(ctx context.Context, store db.Store, classId primitive.ObjectID, links []backLink) error {
	for _, link := range links {
		err := o.apply(ctx, store, classId, link)
		if err == nil {
			continue
		}
		if o.transactional() {
			return errors.Wrapf(err, "updating back-reference in '%s'", link.collection)
		}

		linkFailures.WithLabelValues(link.collection, link.op).Inc()
		grip.Warning(message.WrapError(err, message.Fields{
			"message":    "class back-reference update failed",
			"class_id":   classId.Hex(),
			"collection": link.collection,
			"parent_id":  link.parentId.Hex(),
			"operation":  link.op,
			"attempts":   o.RetryAttempts,
		}))
	}
	return nil
}

func (o LinkOptions) apply(ctx context.Context, store db.Store, classId primitive.ObjectID, link backLink) error {
	update := func() error {
		err := link.apply(ctx, store, link.parentId, classId)
		// pulling from a parent that is gone leaves nothing to fix
		if link.op == linkOpRemove && errors.Cause(err) == db.ErrNotFound {
			return nil
		}
		return err
	}

	if o.transactional() || o.RetryAttempts <= 1 {
		return update()
	}

	return utility.Retry(ctx, func() (bool, error) {
		err := update()
		if err == nil {
			return false, nil
		}
		// a missing parent will not appear on a later attempt
		return errors.Cause(err) != db.ErrNotFound, err
	}, utility.RetryOptions{
		MaxAttempts: o.RetryAttempts,
		MinDelay:    o.MinDelay,
		MaxDelay:    o.MaxDelay,
	})
}

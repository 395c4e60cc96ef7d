package data

import (
	"context"
	"fmt"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connector is the entity access layer used by the REST routes. Every
// method returns an *Error on failure.
type Connector interface {
	FindInstructors(context.Context, ListOptions) ([]restmodel.APIInstructor, error)
	FindInstructorById(context.Context, string) (*restmodel.APIInstructorDetails, error)
	CreateInstructor(context.Context, *restmodel.APIInstructor) (string, error)
	ReplaceInstructor(context.Context, string, *restmodel.APIInstructor) (bool, error)
	PatchInstructor(context.Context, string, map[string]any) (bool, error)
	RemoveInstructor(context.Context, string) error

	FindClassLocations(context.Context, ListOptions) ([]restmodel.APIClassLocation, error)
	FindClassLocationById(context.Context, string) (*restmodel.APIClassLocationDetails, error)
	CreateClassLocation(context.Context, *restmodel.APIClassLocation) (string, error)
	ReplaceClassLocation(context.Context, string, *restmodel.APIClassLocation) (bool, error)
	PatchClassLocation(context.Context, string, map[string]any) (bool, error)
	RemoveClassLocation(context.Context, string) error

	FindClasses(context.Context, ListOptions) ([]restmodel.APIClass, error)
	FindClassById(context.Context, string) (*restmodel.APIClass, error)
	CreateClass(context.Context, *restmodel.APIClass) (string, error)
	ReplaceClass(context.Context, string, *restmodel.APIClass) (bool, error)
	PatchClass(context.Context, string, map[string]any) (bool, error)
	RemoveClass(context.Context, string) error
}

// ListOptions are the query parameters of a listing.
type ListOptions struct {
	// Filter is a JSON object, or empty for no filter.
	Filter string
	// Page is 1-based; values below 1 mean the first page.
	Page int
	// PageSize of 0 returns every match.
	PageSize int
}

// DBConnector implements Connector against the environment's store.
type DBConnector struct {
	env studio.Environment
}

// NewDBConnector returns a connector backed by the environment's store.
func NewDBConnector(env studio.Environment) *DBConnector {
	return &DBConnector{env: env}
}

func (dc *DBConnector) store() db.Store {
	return dc.env.Store()
}

// listQuery pages a listing and bounds it by the configured query
// timeout.
func (dc *DBConnector) listQuery(q db.Q, opts ListOptions) db.Q {
	return q.Page(opts.Page, opts.PageSize).MaxTime(dc.env.Settings().Database.QueryTimeout())
}

func (dc *DBConnector) linkOptions() model.LinkOptions {
	return model.NewLinkOptions(dc.env.Settings().Links)
}

func (dc *DBConnector) strictPatch() bool {
	return dc.env.Settings().Api.StrictPatch
}

// ParseId converts an id from a request path. name is used in the error
// message, as in "Invalid instructor ID format".
func ParseId(id, name string) (primitive.ObjectID, error) {
	oid, err := model.ParseId(id)
	if err != nil {
		return oid, &Error{Kind: MalformedIdentifier, Message: "Invalid " + name + " ID format", cause: err}
	}
	return oid, nil
}

// parseFilter converts a listing filter, separating filters that are not
// JSON from filters that do not fit the schema.
func parseFilter(raw string, schema db.FilterSchema) (db.FilterExpr, error) {
	expr, err := db.ParseFilter(raw, schema)
	if err == nil {
		return expr, nil
	}
	if db.IsMalformedFilter(err) {
		return nil, &Error{Kind: MalformedFilter, Message: "Malformed filter", cause: err}
	}
	return nil, &Error{Kind: InvalidFilter, Message: err.Error()}
}

// patchDocument turns a partial update into a $set document. Keys outside
// fields are dropped unless passThrough is set; _id is always dropped.
func patchDocument(fields db.FieldSet, payload map[string]any, passThrough bool, check func(map[string]any) validator.ValidationErrors, strict bool) (any, error) {
	selected := map[string]any{}
	if passThrough {
		for key, value := range payload {
			if key != "_id" {
				selected[key] = value
			}
		}
	} else {
		selected, _ = fields.Select(payload)
	}
	if len(selected) == 0 {
		return nil, newError(NoValidFields, "No valid fields provided for update.")
	}

	update, err := fields.SetDocument(selected)
	if err != nil {
		var fieldErr *db.FieldValueError
		if errors.As(err, &fieldErr) {
			return nil, ValidationFailure(validator.ValidationErrors{{
				Field:   fieldErr.Field,
				Rule:    "type",
				Message: fmt.Sprintf("\"%s\" %s", fieldErr.Field, fieldErr.Reason),
			}})
		}
		return nil, storageFailure(err, "building update")
	}

	if strict {
		if errs := check(update["$set"].(bson.M)); len(errs) > 0 {
			return nil, ValidationFailure(errs)
		}
	}
	return update, nil
}

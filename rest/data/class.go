package data

import (
	"context"
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func buildClasses(classes []class.Class) []restmodel.APIClass {
	out := make([]restmodel.APIClass, 0, len(classes))
	for _, c := range classes {
		apiClass := restmodel.APIClass{}
		apiClass.BuildFromService(c)
		out = append(out, apiClass)
	}
	return out
}

// FindClasses returns the classes matching the filter in store order.
func (dc *DBConnector) FindClasses(ctx context.Context, opts ListOptions) ([]restmodel.APIClass, error) {
	ctx, span := tracer.Start(ctx, "FindClasses")
	defer span.End()

	expr, err := parseFilter(opts.Filter, class.FilterSchema)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("filter.fields", expr.Fields()))

	found, err := class.Find(ctx, dc.store(), dc.listQuery(class.ByFilter(expr), opts))
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch classes.")
	}
	return buildClasses(found), nil
}

// FindClassById returns a single class.
func (dc *DBConnector) FindClassById(ctx context.Context, id string) (*restmodel.APIClass, error) {
	ctx, span := tracer.Start(ctx, "FindClassById", trace.WithAttributes(attribute.String("class.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class")
	if err != nil {
		return nil, err
	}
	c, err := class.FindOneId(ctx, dc.store(), oid)
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch class.")
	}
	if c == nil {
		return nil, newError(NotFound, "Class not found with id: %s", id)
	}

	apiClass := &restmodel.APIClass{}
	apiClass.BuildFromService(*c)
	return apiClass, nil
}

// CreateClass validates the payload, checks that the instructor and class
// location exist, stores the class and links it to both.
func (dc *DBConnector) CreateClass(ctx context.Context, in *restmodel.APIClass) (string, error) {
	ctx, span := tracer.Start(ctx, "CreateClass")
	defer span.End()

	if errs := validator.ValidateClass(in); len(errs) > 0 {
		return "", ValidationFailure(errs)
	}
	c, err := in.ToService()
	if err != nil {
		return "", &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	c.Id = primitive.NilObjectID

	opts := dc.linkOptions()
	span.SetAttributes(attribute.String("links.mode", string(opts.Mode)))
	if err = model.CreateClass(ctx, dc.store(), c, opts); err != nil {
		if model.IsMissingReference(err) {
			return "", &Error{Kind: ReferenceNotFound, Message: errors.Cause(err).Error()}
		}
		return "", storageFailure(err, "Unable to create new class")
	}
	return c.Id.Hex(), nil
}

// ReplaceClass validates the payload and replaces the stored class with
// it. The references are not checked again.
func (dc *DBConnector) ReplaceClass(ctx context.Context, id string, in *restmodel.APIClass) (bool, error) {
	ctx, span := tracer.Start(ctx, "ReplaceClass", trace.WithAttributes(attribute.String("class.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class")
	if err != nil {
		return false, err
	}
	if errs := validator.ValidateClass(in); len(errs) > 0 {
		return false, ValidationFailure(errs)
	}
	c, err := in.ToService()
	if err != nil {
		return false, &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	c.Id = oid

	changed, err := c.Replace(ctx, dc.store())
	if err != nil {
		return false, storageFailure(err, "An error occurred while trying to update the class with PUT operation.")
	}
	return changed, nil
}

// PatchClass sets every field in the payload except the id. Unlike the
// other entities there is no allow-list: unknown fields are stored as
// given, and changing a reference does not move its back-references.
func (dc *DBConnector) PatchClass(ctx context.Context, id string, payload map[string]any) (bool, error) {
	ctx, span := tracer.Start(ctx, "PatchClass", trace.WithAttributes(attribute.String("class.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class")
	if err != nil {
		return false, err
	}
	update, err := patchDocument(class.PatchableFields, payload, true, validator.ValidateClassPatch, dc.strictPatch())
	if err != nil {
		return false, err
	}

	changed, err := class.UpdateOne(ctx, dc.store(), oid, update)
	if err != nil {
		return false, storageFailure(err, "An error occurred while updating the class")
	}
	return changed, nil
}

// RemoveClass deletes the class and pulls it from its instructor's and
// class location's back-reference lists.
func (dc *DBConnector) RemoveClass(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "RemoveClass", trace.WithAttributes(attribute.String("class.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class")
	if err != nil {
		return err
	}
	existed, err := model.RemoveClass(ctx, dc.store(), oid, dc.linkOptions())
	if err != nil {
		return storageFailure(err, fmt.Sprintf("Failed to remove class with id %s", id))
	}
	if !existed {
		return newError(NotFound, "No class found with id %s", id)
	}
	return nil
}

package data

import (
	"context"
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FindClassLocations returns the class locations matching the filter,
// sorted by name and without their ids.
func (dc *DBConnector) FindClassLocations(ctx context.Context, opts ListOptions) ([]restmodel.APIClassLocation, error) {
	ctx, span := tracer.Start(ctx, "FindClassLocations")
	defer span.End()

	expr, err := parseFilter(opts.Filter, location.FilterSchema)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("filter.fields", expr.Fields()))

	found, err := location.Find(ctx, dc.store(), dc.listQuery(location.ByFilter(expr), opts))
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch class locations.")
	}

	out := make([]restmodel.APIClassLocation, 0, len(found))
	for _, l := range found {
		apiLocation := restmodel.APIClassLocation{}
		apiLocation.BuildFromService(l)
		out = append(out, apiLocation)
	}
	return out, nil
}

// FindClassLocationById returns the class location with the classes held
// there.
func (dc *DBConnector) FindClassLocationById(ctx context.Context, id string) (*restmodel.APIClassLocationDetails, error) {
	ctx, span := tracer.Start(ctx, "FindClassLocationById", trace.WithAttributes(attribute.String("class_location.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class location")
	if err != nil {
		return nil, err
	}
	l, err := location.FindOneId(ctx, dc.store(), oid)
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch class location.")
	}
	if l == nil {
		return nil, newError(NotFound, "Unable to find matching document with id: %s", id)
	}

	classes, err := class.Find(ctx, dc.store(), class.ByClassLocationId(oid))
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch the class location's classes.")
	}

	details := &restmodel.APIClassLocationDetails{Classes: buildClasses(classes)}
	details.ClassLocation.BuildFromService(*l)
	return details, nil
}

// CreateClassLocation validates and stores a new class location. The
// class list starts empty whatever the payload holds.
func (dc *DBConnector) CreateClassLocation(ctx context.Context, in *restmodel.APIClassLocation) (string, error) {
	ctx, span := tracer.Start(ctx, "CreateClassLocation")
	defer span.End()

	if errs := validator.ValidateClassLocation(in); len(errs) > 0 {
		return "", ValidationFailure(errs)
	}
	l, err := in.ToService()
	if err != nil {
		return "", &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	newLocation := &location.ClassLocation{
		Name:         l.Name,
		MaxCapacity:  l.MaxCapacity,
		Location:     l.Location,
		ClassFormats: l.ClassFormats,
	}
	if err = newLocation.Insert(ctx, dc.store()); err != nil {
		return "", storageFailure(err, "Unable to create new class location")
	}
	return newLocation.Id.Hex(), nil
}

// ReplaceClassLocation validates the payload and replaces the stored
// class location with it, reporting whether anything changed.
func (dc *DBConnector) ReplaceClassLocation(ctx context.Context, id string, in *restmodel.APIClassLocation) (bool, error) {
	ctx, span := tracer.Start(ctx, "ReplaceClassLocation", trace.WithAttributes(attribute.String("class_location.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class location")
	if err != nil {
		return false, err
	}
	if errs := validator.ValidateClassLocation(in); len(errs) > 0 {
		return false, ValidationFailure(errs)
	}
	l, err := in.ToService()
	if err != nil {
		return false, &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	l.Id = oid

	changed, err := l.Replace(ctx, dc.store())
	if err != nil {
		return false, storageFailure(err, "An error occurred while trying to update the class location with PUT operation.")
	}
	return changed, nil
}

// PatchClassLocation sets the allowed fields present in the payload and
// ignores the rest.
func (dc *DBConnector) PatchClassLocation(ctx context.Context, id string, payload map[string]any) (bool, error) {
	ctx, span := tracer.Start(ctx, "PatchClassLocation", trace.WithAttributes(attribute.String("class_location.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class location")
	if err != nil {
		return false, err
	}
	update, err := patchDocument(location.PatchableFields, payload, false, validator.ValidateClassLocationPatch, dc.strictPatch())
	if err != nil {
		return false, err
	}

	changed, err := location.UpdateOne(ctx, dc.store(), oid, update)
	if err != nil {
		return false, storageFailure(err, "An error occurred while updating the class location")
	}
	return changed, nil
}

// RemoveClassLocation deletes the class location. Classes held there keep
// the reference.
func (dc *DBConnector) RemoveClassLocation(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "RemoveClassLocation", trace.WithAttributes(attribute.String("class_location.id", id)))
	defer span.End()

	oid, err := ParseId(id, "class location")
	if err != nil {
		return err
	}
	existed, err := location.Remove(ctx, dc.store(), oid)
	if err != nil {
		return storageFailure(err, fmt.Sprintf("Failed to remove class location with id %s", id))
	}
	if !existed {
		return newError(NotFound, "No class location found with id %s", id)
	}
	return nil
}

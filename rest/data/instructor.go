package data

import (
	"context"
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FindInstructors returns the instructors matching the filter, sorted by
// name and without their ids.
func (dc *DBConnector) FindInstructors(ctx context.Context, opts ListOptions) ([]restmodel.APIInstructor, error) {
	ctx, span := tracer.Start(ctx, "FindInstructors")
	defer span.End()

	expr, err := parseFilter(opts.Filter, instructor.FilterSchema)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("filter.fields", expr.Fields()))

	found, err := instructor.Find(ctx, dc.store(), dc.listQuery(instructor.ByFilter(expr), opts))
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch instructors.")
	}

	out := make([]restmodel.APIInstructor, 0, len(found))
	for _, i := range found {
		apiInstructor := restmodel.APIInstructor{}
		apiInstructor.BuildFromService(i)
		out = append(out, apiInstructor)
	}
	return out, nil
}

// FindInstructorById returns the instructor with the classes that name it.
func (dc *DBConnector) FindInstructorById(ctx context.Context, id string) (*restmodel.APIInstructorDetails, error) {
	ctx, span := tracer.Start(ctx, "FindInstructorById", trace.WithAttributes(attribute.String("instructor.id", id)))
	defer span.End()

	oid, err := ParseId(id, "instructor")
	if err != nil {
		return nil, err
	}
	i, err := instructor.FindOneId(ctx, dc.store(), oid)
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch instructor.")
	}
	if i == nil {
		return nil, newError(NotFound, "Unable to find matching document with id: %s", id)
	}

	classes, err := class.Find(ctx, dc.store(), class.ByInstructorId(oid))
	if err != nil {
		return nil, storageFailure(err, "Unable to fetch the instructor's classes.")
	}

	details := &restmodel.APIInstructorDetails{Classes: buildClasses(classes)}
	details.Instructor.BuildFromService(*i)
	return details, nil
}

// CreateInstructor validates and stores a new instructor. Only the name,
// specialities and email are kept; the class list starts empty.
func (dc *DBConnector) CreateInstructor(ctx context.Context, in *restmodel.APIInstructor) (string, error) {
	ctx, span := tracer.Start(ctx, "CreateInstructor")
	defer span.End()

	if errs := validator.ValidateInstructor(in); len(errs) > 0 {
		return "", ValidationFailure(errs)
	}
	i, err := in.ToService()
	if err != nil {
		return "", &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	newInstructor := &instructor.Instructor{
		Name:             i.Name,
		YogaSpecialities: i.YogaSpecialities,
		Email:            i.Email,
	}
	if err = newInstructor.Insert(ctx, dc.store()); err != nil {
		return "", storageFailure(err, "Unable to create new instructor")
	}
	return newInstructor.Id.Hex(), nil
}

// ReplaceInstructor validates the payload and replaces the stored
// instructor with it, reporting whether anything changed.
func (dc *DBConnector) ReplaceInstructor(ctx context.Context, id string, in *restmodel.APIInstructor) (bool, error) {
	ctx, span := tracer.Start(ctx, "ReplaceInstructor", trace.WithAttributes(attribute.String("instructor.id", id)))
	defer span.End()

	oid, err := ParseId(id, "instructor")
	if err != nil {
		return false, err
	}
	if errs := validator.ValidateInstructor(in); len(errs) > 0 {
		return false, ValidationFailure(errs)
	}
	i, err := in.ToService()
	if err != nil {
		return false, &Error{Kind: ValidationError, Message: "Validation failed", cause: err}
	}
	i.Id = oid

	changed, err := i.Replace(ctx, dc.store())
	if err != nil {
		return false, storageFailure(err, "An error occurred while trying to update the instructor with PUT operation.")
	}
	return changed, nil
}

// PatchInstructor sets the allowed fields present in the payload and
// ignores the rest.
func (dc *DBConnector) PatchInstructor(ctx context.Context, id string, payload map[string]any) (bool, error) {
	ctx, span := tracer.Start(ctx, "PatchInstructor", trace.WithAttributes(attribute.String("instructor.id", id)))
	defer span.End()

	oid, err := ParseId(id, "instructor")
	if err != nil {
		return false, err
	}
	update, err := patchDocument(instructor.PatchableFields, payload, false, validator.ValidateInstructorPatch, dc.strictPatch())
	if err != nil {
		return false, err
	}

	changed, err := instructor.UpdateOne(ctx, dc.store(), oid, update)
	if err != nil {
		return false, storageFailure(err, "An error occurred while updating the instructor")
	}
	return changed, nil
}

// RemoveInstructor deletes the instructor. Classes that name it keep the
// reference.
func (dc *DBConnector) RemoveInstructor(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "RemoveInstructor", trace.WithAttributes(attribute.String("instructor.id", id)))
	defer span.End()

	oid, err := ParseId(id, "instructor")
	if err != nil {
		return err
	}
	existed, err := instructor.Remove(ctx, dc.store(), oid)
	if err != nil {
		return storageFailure(err, fmt.Sprintf("Failed to remove instructor with id %s", id))
	}
	if !existed {
		return newError(NotFound, "No instructor found with id %s", id)
	}
	return nil
}

package model

import (
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func idPtr(id primitive.ObjectID) *string {
	if id.IsZero() {
		return nil
	}
	return utility.ToStringPtr(id.Hex())
}

func idStrings(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func parseIdPtr(id *string) (primitive.ObjectID, error) {
	if id == nil || *id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(*id)
	return oid, errors.Wrapf(err, "'%s' is not a valid identifier", *id)
}

func parseIds(ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.Wrapf(err, "'%s' is not a valid identifier", id)
		}
		out = append(out, oid)
	}
	return out, nil
}

package db

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Q holds all information necessary to execute a query
type Q struct {
	filter     any
	projection any
	sort       []string
	skip       int
	limit      int
	maxTime    time.Duration
}

// Query creates a db.Q for the given MongoDB query. The filter
// can be a struct, bson.D, bson.M, nil, etc.
func Query(filter any) Q {
	return Q{filter: filter}
}

// WithFields limits the returned document to the given fields.
func (q Q) WithFields(fields ...string) Q {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}
	q.projection = projection
	return q
}

// WithoutFields omits the given fields from the returned document.
func (q Q) WithoutFields(fields ...string) Q {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 0
	}
	q.projection = projection
	return q
}

// Sort takes field names, prefixed with "-" for descending order.
func (q Q) Sort(sort []string) Q {
	q.sort = sort
	return q
}

func (q Q) Skip(skip int) Q {
	q.skip = skip
	return q
}

func (q Q) Limit(limit int) Q {
	q.limit = limit
	return q
}

// MaxTime bounds how long the server may spend on the query.
func (q Q) MaxTime(duration time.Duration) Q {
	q.maxTime = duration
	return q
}

// Page applies 1-based pagination. A page size of zero returns every
// matching document and skips nothing. A page too far out to address
// skips everything.
func (q Q) Page(page, pageSize int) Q {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return q.Skip(0).Limit(0)
	}
	if page-1 > math.MaxInt/pageSize {
		return q.Skip(math.MaxInt).Limit(pageSize)
	}
	return q.Skip((page - 1) * pageSize).Limit(pageSize)
}

// sortToBSON converts the "-field" sort notation into an ordered bson
// sort document.
func sortToBSON(sort []string) bson.D {
	out := bson.D{}
	for _, s := range sort {
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "-") {
			out = append(out, bson.E{Key: s[1:], Value: -1})
		} else {
			out = append(out, bson.E{Key: strings.TrimPrefix(s, "+"), Value: 1})
		}
	}
	return out
}

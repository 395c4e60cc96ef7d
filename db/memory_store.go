package db

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryStore is an in-process Store that keeps documents in insertion
// order. It understands the subset of the MongoDB query and update
// languages that the models use: equality and the comparison, $in, $nin,
// $exists, $and, $or operators in filters; $set, $unset, $inc, $push,
// $addToSet and $pull in updates; inclusion or exclusion projections.
//
// Transactions are serialized and restore a snapshot on failure. Writes
// made outside a transaction while one is running are lost if the
// transaction rolls back.
type MemoryStore struct {
	mu          sync.RWMutex
	txn         sync.Mutex
	collections map[string][]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string][]bson.M{}}
}

func (s *MemoryStore) Insert(_ context.Context, collection string, doc any) error {
	stored, err := toDocument(doc)
	if err != nil {
		return errors.Wrapf(err, "inserting document into '%s'", collection)
	}
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(collection, stored["_id"]) >= 0 {
		return errors.Errorf("inserting document into '%s': E11000 duplicate key error for _id %v", collection, stored["_id"])
	}
	s.collections[collection] = append(s.collections[collection], stored)

	return nil
}

func (s *MemoryStore) FindOneQ(_ context.Context, collection string, q Q, out any) error {
	docs, err := s.query(collection, q.Limit(1))
	if err != nil {
		return errors.Wrapf(err, "finding document in '%s'", collection)
	}
	if len(docs) == 0 {
		return mongo.ErrNoDocuments
	}

	return errors.Wrapf(decode(docs[0], out), "decoding document from '%s'", collection)
}

func (s *MemoryStore) FindAllQ(_ context.Context, collection string, q Q, out any) error {
	docs, err := s.query(collection, q)
	if err != nil {
		return errors.Wrapf(err, "finding documents in '%s'", collection)
	}

	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		return errors.Errorf("results argument must be a pointer to a slice, got %T", out)
	}
	slice := ptr.Elem()
	results := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(doc, elem.Interface()); err != nil {
			return errors.Wrapf(err, "decoding document from '%s'", collection)
		}
		results = reflect.Append(results, elem.Elem())
	}
	slice.Set(results)

	return nil
}

func (s *MemoryStore) Count(_ context.Context, collection string, filter any) (int, error) {
	docs, err := s.query(collection, Query(filter))
	if err != nil {
		return 0, errors.Wrapf(err, "counting documents in '%s'", collection)
	}
	return len(docs), nil
}

func (s *MemoryStore) ReplaceId(_ context.Context, collection string, id, doc any) (*ChangeInfo, error) {
	replacement, err := toDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "replacing document in '%s'", collection)
	}
	replacement["_id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(collection, id)
	if idx < 0 {
		return &ChangeInfo{}, nil
	}
	replacement, err = toDocument(replacement)
	if err != nil {
		return nil, errors.Wrapf(err, "replacing document in '%s'", collection)
	}

	info := &ChangeInfo{}
	if !equalValues(s.collections[collection][idx], replacement) {
		info.Updated = 1
	}
	s.collections[collection][idx] = replacement

	return info, nil
}

func (s *MemoryStore) UpdateId(_ context.Context, collection string, id, update any) (*ChangeInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(collection, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	modified, err := s.updateAt(collection, idx, update)
	if err != nil {
		return nil, errors.Wrapf(err, "updating document in '%s'", collection)
	}

	info := &ChangeInfo{}
	if modified {
		info.Updated = 1
	}
	return info, nil
}

func (s *MemoryStore) UpdateAll(_ context.Context, collection string, filter, update any) (*ChangeInfo, error) {
	cond, err := asFilter(filter)
	if err != nil {
		return nil, errors.Wrapf(err, "updating documents in '%s'", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info := &ChangeInfo{}
	for idx, doc := range s.collections[collection] {
		if !matchDocument(doc, cond) {
			continue
		}
		modified, err := s.updateAt(collection, idx, update)
		if err != nil {
			return nil, errors.Wrapf(err, "updating documents in '%s'", collection)
		}
		if modified {
			info.Updated++
		}
	}

	return info, nil
}

func (s *MemoryStore) RemoveId(_ context.Context, collection string, id any) (*ChangeInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(collection, id)
	if idx < 0 {
		return &ChangeInfo{}, nil
	}

	docs := s.collections[collection]
	s.collections[collection] = append(docs[:idx:idx], docs[idx+1:]...)

	return &ChangeInfo{Removed: 1}, nil
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	s.txn.Lock()
	defer s.txn.Unlock()

	s.mu.RLock()
	snapshot := make(map[string][]bson.M, len(s.collections))
	for name, docs := range s.collections {
		snapshot[name] = append([]bson.M(nil), docs...)
	}
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.collections = snapshot
		s.mu.Unlock()
		return errors.Wrap(err, "running transaction")
	}

	return nil
}

func (s *MemoryStore) ClearCollections(_ context.Context, collections ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, collection := range collections {
		delete(s.collections, collection)
	}
	return nil
}

func (s *MemoryStore) indexOf(collection string, id any) int {
	for idx, doc := range s.collections[collection] {
		if equalValues(doc["_id"], id) {
			return idx
		}
	}
	return -1
}

// updateAt applies the update to a copy of the stored document so that
// snapshots taken by transactions never observe partial writes.
func (s *MemoryStore) updateAt(collection string, idx int, update any) (bool, error) {
	ops, err := asFilter(update)
	if err != nil {
		return false, err
	}

	current := s.collections[collection][idx]
	next, err := toDocument(current)
	if err != nil {
		return false, err
	}
	if err = applyUpdate(next, ops); err != nil {
		return false, err
	}
	if next, err = toDocument(next); err != nil {
		return false, err
	}

	s.collections[collection][idx] = next
	return !equalValues(current, next), nil
}

func (s *MemoryStore) query(collection string, q Q) ([]bson.M, error) {
	cond, err := asFilter(q.filter)
	if err != nil {
		return nil, err
	}
	projection, err := asFilter(q.projection)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var matched []bson.M
	for _, doc := range s.collections[collection] {
		if matchDocument(doc, cond) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	if len(q.sort) > 0 {
		keys := sortToBSON(q.sort)
		sort.SliceStable(matched, func(i, j int) bool {
			for _, key := range keys {
				a, _ := lookup(matched[i], key.Key)
				b, _ := lookup(matched[j], key.Key)
				c := compareForSort(a, b)
				if c == 0 {
					continue
				}
				if key.Value == -1 {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.skip > 0 {
		if q.skip >= len(matched) {
			return nil, nil
		}
		matched = matched[q.skip:]
	}
	if q.limit > 0 && q.limit < len(matched) {
		matched = matched[:q.limit]
	}

	if len(projection) == 0 {
		return matched, nil
	}
	out := make([]bson.M, 0, len(matched))
	for _, doc := range matched {
		out = append(out, project(doc, projection))
	}
	return out, nil
}

////////////////////////////////////////////////////////////////////////
//
// document conversion

func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling document")
	}
	doc := bson.M{}
	if err = bson.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshalling document")
	}
	return doc, nil
}

func decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshalling document")
	}
	return errors.Wrap(bson.Unmarshal(raw, out), "unmarshalling document")
}

// toStoredValue converts a Go value into the form it takes after a trip
// through BSON.
func toStoredValue(v any) (any, error) {
	doc, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func asFilter(v any) (map[string]any, error) {
	switch f := v.(type) {
	case nil:
		return nil, nil
	case bson.M:
		return f, nil
	case map[string]any:
		return f, nil
	case bson.D:
		out := make(map[string]any, len(f))
		for _, e := range f {
			out[e.Key] = e.Value
		}
		return out, nil
	default:
		return toDocument(v)
	}
}

func asOperatorDoc(v any) (map[string]any, bool) {
	switch v.(type) {
	case bson.M, map[string]any, bson.D:
	default:
		return nil, false
	}
	doc, err := asFilter(v)
	if err != nil || len(doc) == 0 {
		return nil, false
	}
	for k := range doc {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return doc, true
}

func lookup(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = doc
	for _, part := range parts {
		m, err := asFilter(cur)
		if err != nil || m == nil {
			return nil, false
		}
		val, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = val
	}
	return cur, true
}

func project(doc bson.M, projection map[string]any) bson.M {
	include := false
	for k, v := range projection {
		if k != "_id" && truthy(v) {
			include = true
		}
	}

	out := bson.M{}
	if include {
		for k, v := range projection {
			if truthy(v) {
				if val, ok := doc[k]; ok {
					out[k] = val
				}
			}
		}
		if v, ok := projection["_id"]; !ok || truthy(v) {
			out["_id"] = doc["_id"]
		}
		return out
	}

	for k, v := range doc {
		if p, ok := projection[k]; ok && !truthy(p) {
			continue
		}
		out[k] = v
	}
	return out
}

func truthy(v any) bool {
	switch t := normalize(v).(type) {
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return v != nil
	}
}

////////////////////////////////////////////////////////////////////////
//
// matching

func matchDocument(doc bson.M, cond map[string]any) bool {
	for key, want := range cond {
		switch key {
		case "$and", "$or", "$nor":
			clauses, _ := normalize(want).([]any)
			matches := 0
			for _, clause := range clauses {
				sub, err := asFilter(clause)
				if err == nil && matchDocument(doc, sub) {
					matches++
				}
			}
			switch {
			case key == "$and" && matches != len(clauses):
				return false
			case key == "$or" && matches == 0:
				return false
			case key == "$nor" && matches > 0:
				return false
			}
		default:
			val, exists := lookup(doc, key)
			if ops, ok := asOperatorDoc(want); ok {
				for op, arg := range ops {
					if !matchOperator(val, exists, op, arg) {
						return false
					}
				}
				continue
			}
			if !matchEqual(val, exists, want) {
				return false
			}
		}
	}
	return true
}

func matchEqual(val any, exists bool, want any) bool {
	if normalize(want) == nil {
		return !exists || normalize(val) == nil
	}
	if !exists {
		return false
	}
	if equalValues(val, want) {
		return true
	}
	if elems, ok := normalize(val).([]any); ok {
		for _, elem := range elems {
			if equalValues(elem, want) {
				return true
			}
		}
	}
	return false
}

func matchOperator(val any, exists bool, op string, arg any) bool {
	switch op {
	case "$eq":
		return matchEqual(val, exists, arg)
	case "$ne":
		return !matchEqual(val, exists, arg)
	case "$in", "$nin":
		options, _ := normalize(arg).([]any)
		found := false
		for _, opt := range options {
			if matchEqual(val, exists, opt) {
				found = true
				break
			}
		}
		return found == (op == "$in")
	case "$exists":
		return truthy(arg) == exists
	case "$gt", "$gte", "$lt", "$lte":
		if !exists {
			return false
		}
		candidates := []any{val}
		if elems, ok := normalize(val).([]any); ok {
			candidates = elems
		}
		for _, c := range candidates {
			cmp, ok := compareValues(c, arg)
			if !ok {
				continue
			}
			switch {
			case op == "$gt" && cmp > 0,
				op == "$gte" && cmp >= 0,
				op == "$lt" && cmp < 0,
				op == "$lte" && cmp <= 0:
				return true
			}
		}
		return false
	default:
		return false
	}
}

////////////////////////////////////////////////////////////////////////
//
// updates

func applyUpdate(doc bson.M, ops map[string]any) error {
	for op, arg := range ops {
		fields, err := asFilter(arg)
		if err != nil {
			return errors.Wrapf(err, "reading '%s' update", op)
		}

		for field, value := range fields {
			switch op {
			case "$set":
				stored, err := toStoredValue(value)
				if err != nil {
					return err
				}
				doc[field] = stored
			case "$unset":
				delete(doc, field)
			case "$inc":
				cur, _ := normalize(doc[field]).(float64)
				delta, ok := normalize(value).(float64)
				if !ok {
					return errors.Errorf("cannot increment '%s' by non-numeric value", field)
				}
				doc[field] = cur + delta
			case "$push", "$addToSet":
				elems, err := existingArray(doc, field)
				if err != nil {
					return err
				}
				additions := []any{value}
				if each, ok := asOperatorDoc(value); ok {
					if list, ok := normalize(each["$each"]).([]any); ok {
						additions = list
					}
				}
				for _, add := range additions {
					stored, err := toStoredValue(add)
					if err != nil {
						return err
					}
					if op == "$addToSet" && containsValue(elems, stored) {
						continue
					}
					elems = append(elems, stored)
				}
				doc[field] = primitive.A(elems)
			case "$pull":
				elems, err := existingArray(doc, field)
				if err != nil {
					return err
				}
				kept := primitive.A{}
				for _, elem := range elems {
					if pullMatches(elem, value) {
						continue
					}
					kept = append(kept, elem)
				}
				if _, ok := doc[field]; ok {
					doc[field] = kept
				}
			default:
				return errors.Errorf("unsupported update operator '%s'", op)
			}
		}
	}
	return nil
}

func existingArray(doc bson.M, field string) ([]any, error) {
	cur, ok := doc[field]
	if !ok || cur == nil {
		return []any{}, nil
	}
	elems, ok := normalizeArray(cur)
	if !ok {
		return nil, errors.Errorf("field '%s' is not an array", field)
	}
	// keep the stored representations, not the normalized ones
	out := make([]any, 0, len(elems))
	rv := reflect.ValueOf(cur)
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out, nil
}

func pullMatches(elem, cond any) bool {
	if ops, ok := asOperatorDoc(cond); ok {
		for op, arg := range ops {
			if !matchOperator(elem, true, op, arg) {
				return false
			}
		}
		return true
	}
	return equalValues(elem, cond)
}

func containsValue(elems []any, v any) bool {
	for _, elem := range elems {
		if equalValues(elem, v) {
			return true
		}
	}
	return false
}

////////////////////////////////////////////////////////////////////////
//
// value comparison

// dateValue is the normalized form of a BSON date: milliseconds since the
// epoch, the precision the server stores.
type dateValue int64

func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case time.Time:
		return dateValue(t.UnixMilli())
	case primitive.DateTime:
		return dateValue(int64(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case string, bool, primitive.ObjectID:
		return t
	}
	if arr, ok := normalizeArray(v); ok {
		return arr
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeArray(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if _, isID := v.(primitive.ObjectID); isID {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, normalize(rv.Index(i).Interface()))
	}
	return out, true
}

func equalValues(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// compareValues orders two values of the same BSON type class. The
// second result is false when the values are not comparable.
func compareValues(a, b any) (int, bool) {
	switch x := normalize(a).(type) {
	case float64:
		y, ok := normalize(b).(float64)
		if !ok {
			return 0, false
		}
		return compareOrdered(x, y), true
	case string:
		y, ok := normalize(b).(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case dateValue:
		y, ok := normalize(b).(dateValue)
		if !ok {
			return 0, false
		}
		return compareOrdered(x, y), true
	case primitive.ObjectID:
		y, ok := normalize(b).(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case bool:
		y, ok := normalize(b).(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func compareOrdered[T float64 | dateValue](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// compareForSort orders values of different types by type name so that
// sorting is total.
func compareForSort(a, b any) int {
	if cmp, ok := compareValues(a, b); ok {
		return cmp
	}
	na, nb := normalize(a), normalize(b)
	switch {
	case na == nil && nb == nil:
		return 0
	case na == nil:
		return -1
	case nb == nil:
		return 1
	}
	return strings.Compare(fmt.Sprintf("%T", na), fmt.Sprintf("%T", nb))
}

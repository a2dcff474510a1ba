package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-fooddelivery/models"
	"go-fooddelivery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CollectionService implements the generic operations shared by every registered collection
type CollectionService struct {
	writeHooks
	registry  *models.Registry
	store     Store
	validator *utils.Validator
}

// NewCollectionService creates a CollectionService. cache and publisher may be nil.
func NewCollectionService(registry *models.Registry, store Store, cache ReportCache, publisher ChangePublisher, logger *zap.Logger) *CollectionService {
	return &CollectionService{
		writeHooks: newWriteHooks(cache, publisher, logger),
		registry:   registry,
		store:      store,
		validator:  utils.NewValidator(),
	}
}

// Find returns the documents matching the criteria
func (s *CollectionService) Find(ctx context.Context, name string, criteria utils.Criteria) ([]bson.M, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.Find(ctx, name, criteria)
	if err != nil {
		return nil, s.storageError(name, "find", err)
	}
	for _, doc := range docs {
		schema.StripHidden(doc)
	}
	return docs, nil
}

// CreateOne validates and stores one document under a freshly generated identifier
func (s *CollectionService) CreateOne(ctx context.Context, name string, body []byte) (models.Document, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	doc := schema.New()
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, decodeError(name, "", doc, body, err)
	}
	if err := s.prepare(schema, doc, true); err != nil {
		return nil, err
	}
	if err := s.store.InsertOne(ctx, name, doc); err != nil {
		return nil, s.storageError(name, "insert", err)
	}
	s.afterWrite(ctx, name, "create", []string{doc.DocumentID()}, 1)
	s.conceal(schema, doc)
	return doc, nil
}

// CreateMany validates every document before inserting the batch. Identifiers present
// in the payload are kept so imported data can reference each other.
func (s *CollectionService) CreateMany(ctx context.Context, name string, body []byte) ([]models.Document, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, malformed("expected an array of documents")
	}

	docs := make([]models.Document, 0, len(raws))
	var violations []utils.FieldViolation
	for i, raw := range raws {
		doc := schema.New()
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, decodeError(name, fmt.Sprintf("[%d]", i), doc, raw, err)
		}
		if err := s.prepare(schema, doc, false); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			for _, v := range verr.Violations {
				v.Field = fmt.Sprintf("[%d].%s", i, v.Field)
				violations = append(violations, v)
			}
			continue
		}
		docs = append(docs, doc)
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Collection: name, Violations: violations}
	}
	if len(docs) == 0 {
		return docs, nil
	}

	batch := make([]interface{}, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		batch[i] = doc
		ids[i] = doc.DocumentID()
	}
	if err := s.store.InsertMany(ctx, name, batch); err != nil {
		return nil, s.storageError(name, "insert many", err)
	}
	s.afterWrite(ctx, name, "create", ids, int64(len(docs)))
	for _, doc := range docs {
		s.conceal(schema, doc)
	}
	return docs, nil
}

// UpdateOneByID applies a patch and returns the updated document, or nil when no document has that id
func (s *CollectionService) UpdateOneByID(ctx context.Context, name, id string, body []byte) (bson.M, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	update, err := s.buildUpdate(schema, body)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.FindOneAndUpdate(ctx, name, bson.M{"_id": id}, update)
	if err != nil {
		return nil, s.storageError(name, "update", err)
	}
	if doc == nil {
		return nil, nil
	}
	schema.StripHidden(doc)
	s.afterWrite(ctx, name, "update", []string{id}, 1)
	return doc, nil
}

// UpdateManyByFilter applies a patch to every document matching the filter.
// The body is {"filter": {...}, "patch": {...}}; the filter key is required, use {} to match everything.
func (s *CollectionService) UpdateManyByFilter(ctx context.Context, name string, body []byte) (models.UpdateResult, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return models.UpdateResult{}, err
	}
	var req struct {
		Filter json.RawMessage `json:"filter"`
		Patch  json.RawMessage `json:"patch"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return models.UpdateResult{}, malformed("expected {filter, patch}")
	}
	filter, err := writeFilter(req.Filter)
	if err != nil {
		return models.UpdateResult{}, err
	}
	update, err := s.buildUpdate(schema, req.Patch)
	if err != nil {
		return models.UpdateResult{}, err
	}
	result, err := s.store.UpdateMany(ctx, name, filter, update)
	if err != nil {
		return models.UpdateResult{}, s.storageError(name, "update many", err)
	}
	s.afterWrite(ctx, name, "update", nil, result.Modified)
	return result, nil
}

// DeleteOneByID removes a document and returns it, or nil when no document has that id
func (s *CollectionService) DeleteOneByID(ctx context.Context, name, id string) (bson.M, error) {
	schema, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.FindOneAndDelete(ctx, name, bson.M{"_id": id})
	if err != nil {
		return nil, s.storageError(name, "delete", err)
	}
	if doc == nil {
		return nil, nil
	}
	schema.StripHidden(doc)
	s.afterWrite(ctx, name, "delete", []string{id}, 1)
	return doc, nil
}

// DeleteManyByFilter removes every document matching the filter in a {"filter": {...}} body
func (s *CollectionService) DeleteManyByFilter(ctx context.Context, name string, body []byte) (int64, error) {
	if _, err := s.registry.Resolve(name); err != nil {
		return 0, err
	}
	var req struct {
		Filter json.RawMessage `json:"filter"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, malformed("expected {filter}")
	}
	filter, err := writeFilter(req.Filter)
	if err != nil {
		return 0, err
	}
	deleted, err := s.store.DeleteMany(ctx, name, filter)
	if err != nil {
		return 0, s.storageError(name, "delete many", err)
	}
	s.afterWrite(ctx, name, "delete", nil, deleted)
	return deleted, nil
}

// prepare assigns identifiers and timestamps, validates, and hashes credentials
func (s *CollectionService) prepare(schema *models.Schema, doc models.Document, fresh bool) error {
	if fresh {
		doc.SetDocumentID(s.newID())
		doc.ClearTimestamps()
	} else if doc.DocumentID() == "" {
		doc.SetDocumentID(s.newID())
	}
	doc.Stamp(s.now())

	var violations []utils.FieldViolation
	if schema.Capabilities.NestedMenu {
		if r, ok := doc.(*models.Restaurant); ok {
			r.Normalize()
			violations = append(violations, s.assignMenuIDs(r.Menu, fresh)...)
		}
	}
	violations = append(violations, s.validator.Struct(doc)...)
	if len(violations) > 0 {
		return &ValidationError{Collection: schema.Name, Violations: violations}
	}
	if schema.Capabilities.Credentials {
		if err := hashCredential(doc); err != nil {
			return err
		}
	}
	return nil
}

// assignMenuIDs gives menu items identifiers and checks they are unique within the menu
func (s *CollectionService) assignMenuIDs(menu []models.MenuItem, fresh bool) []utils.FieldViolation {
	var violations []utils.FieldViolation
	seen := make(map[string]bool, len(menu))
	for i := range menu {
		if fresh || menu[i].ID == "" {
			menu[i].ID = s.newID()
		}
		if seen[menu[i].ID] {
			field := fmt.Sprintf("menu[%d]._id", i)
			violations = append(violations, utils.FieldViolation{
				Field:   field,
				Rule:    "unique",
				Message: field + " must be unique within the menu",
			})
		}
		seen[menu[i].ID] = true
	}
	return violations
}

// protectedFields are maintained by the service and never written by a patch
var protectedFields = []string{"_id", "createdAt", "updatedAt"}

// buildUpdate turns a patch body into an update document. A body without operators is a $set.
// $set fields are decoded through the schema type so they are validated and stored with their
// declared types; fields unknown to the schema are dropped, _id and timestamps are never set.
// The only other operator is $unset, limited to optional fields.
func (s *CollectionService) buildUpdate(schema *models.Schema, body []byte) (bson.M, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		return nil, malformed("patch must be a JSON object")
	}

	update := bson.M{}
	setRaw := map[string]json.RawMessage{}
	for key, raw := range top {
		switch {
		case key == "$set":
			if err := json.Unmarshal(raw, &setRaw); err != nil {
				return nil, malformed("$set must be an object")
			}
		case key == "$unset":
			unset, err := s.unsetFields(schema, raw)
			if err != nil {
				return nil, err
			}
			if len(unset) > 0 {
				update["$unset"] = unset
			}
		case strings.HasPrefix(key, "$"):
			return nil, malformed("update operator %s is not supported, send the fields to set", key)
		default:
			setRaw[key] = raw
		}
	}

	set, err := s.typedSet(schema, setRaw)
	if err != nil {
		return nil, err
	}
	if unset, ok := update["$unset"].(bson.M); ok {
		for field := range unset {
			if _, clash := set[field]; clash {
				return nil, malformed("%s is both set and unset", field)
			}
		}
	}
	set["updatedAt"] = s.now()
	update["$set"] = set
	return update, nil
}

// unsetFields checks an $unset document: every key must be an optional top-level field
func (s *CollectionService) unsetFields(schema *models.Schema, raw json.RawMessage) (bson.M, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, malformed("$unset must be an object")
	}
	doc := schema.New()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	unset := bson.M{}
	var violations []utils.FieldViolation
	for _, name := range names {
		switch {
		case contains(protectedFields, name) || contains(schema.Hidden, name):
			violations = append(violations, utils.FieldViolation{
				Field: name, Rule: "readonly", Message: name + " cannot be removed",
			})
		case !utils.HasField(doc, name):
			return nil, malformed("$unset: unknown field %s", name)
		case !utils.IsOptional(doc, name):
			violations = append(violations, utils.FieldViolation{
				Field: name, Rule: "required", Message: name + " is required and cannot be removed",
			})
		default:
			unset[name] = ""
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Collection: schema.Name, Violations: violations}
	}
	return unset, nil
}

func (s *CollectionService) typedSet(schema *models.Schema, setRaw map[string]json.RawMessage) (bson.M, error) {
	for _, f := range protectedFields {
		delete(setRaw, f)
	}

	doc := schema.New()
	names := make([]string, 0, len(setRaw))
	for key := range setRaw {
		if utils.HasField(doc, key) {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return bson.M{}, nil
	}

	subset := make(map[string]json.RawMessage, len(names))
	for _, n := range names {
		subset[n] = setRaw[n]
	}
	buf, err := json.Marshal(subset)
	if err != nil {
		return nil, malformed("patch: %v", err)
	}
	if err := json.Unmarshal(buf, doc); err != nil {
		return nil, decodeError(schema.Name, "", doc, buf, err)
	}

	violations := s.validator.Fields(doc, names...)
	if r, ok := doc.(*models.Restaurant); ok && schema.Capabilities.NestedMenu {
		if contains(names, "menu") {
			if r.Menu == nil {
				r.Menu = []models.MenuItem{}
			}
			violations = append(violations, s.assignMenuIDs(r.Menu, false)...)
		}
		if contains(names, "location") && r.Location.Type == "" {
			r.Location.Type = "Point"
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Collection: schema.Name, Violations: violations}
	}
	if schema.Capabilities.Credentials && contains(names, "password") {
		if err := hashCredential(doc); err != nil {
			return nil, err
		}
	}

	// values are taken from the decoded fields, so empty arrays survive omitempty tags
	set := bson.M{}
	for _, n := range names {
		if v, ok := utils.FieldValue(doc, n); ok {
			set[n] = v
		}
	}
	return set, nil
}

// conceal clears secrets from a document before it is returned
func (s *CollectionService) conceal(schema *models.Schema, doc models.Document) {
	if !schema.Capabilities.Credentials {
		return
	}
	if holder, ok := doc.(models.CredentialHolder); ok {
		holder.SetCredential("")
	}
}

func (s *CollectionService) storageError(name, op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s %s", ErrDuplicate, op, name)
	}
	s.logger.Error("storage operation failed", zap.String("collection", name), zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s %s: %w", op, name, err)
}

func hashCredential(doc models.Document) error {
	holder, ok := doc.(models.CredentialHolder)
	if !ok {
		return nil
	}
	hashed, err := utils.HashPassword(holder.Credential())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	holder.SetCredential(hashed)
	return nil
}

// writeFilter parses the filter of a write-many body. Unlike read filters it never
// falls back to {}: a missing or unparseable filter would otherwise touch every document.
func writeFilter(raw json.RawMessage) (bson.M, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, malformed("filter is required, use {} to match every document")
	}
	filter, err := utils.ParseDocument(raw)
	if err != nil {
		return nil, malformed("filter must be a JSON object")
	}
	return filter, nil
}

// decodeError reports a payload that does not fit the schema types
func decodeError(collection, prefix string, doc models.Document, raw []byte, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := joinPrefix(prefix, typeErr.Field)
		return &ValidationError{Collection: collection, Violations: []utils.FieldViolation{{
			Field:   field,
			Rule:    "type",
			Message: fmt.Sprintf("%s must be of type %s", field, typeErr.Type),
		}}}
	}
	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		field := joinPrefix(prefix, badTimeField(doc, raw))
		return &ValidationError{Collection: collection, Violations: []utils.FieldViolation{{
			Field:   field,
			Rule:    "datetime",
			Message: field + " must be an RFC 3339 date: " + timeErr.Error(),
		}}}
	}
	return malformed("%v", err)
}

// badTimeField finds the first time field of raw that does not parse, "date" when none can be named
func badTimeField(doc models.Document, raw []byte) string {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return "date"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !utils.IsTimeField(doc, name) {
			continue
		}
		var ts time.Time
		if json.Unmarshal(fields[name], &ts) != nil {
			return name
		}
	}
	return "date"
}

func joinPrefix(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	}
	return prefix + "." + field
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/tananushka/employees/internal/db"
)

// tagSeparator splits TAG values; chosen so ordinary text stays a single tag.
const tagSeparator = "|"

// EnsureIndex creates the index unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// CreateIndex creates an FT index over the JSON documents of def.Name.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := s.buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. Documents are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(s.indexName(name)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isNoSuchIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(s.indexName(name)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isNoSuchIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func (s *Store) buildCreateArgs(def *db.IndexDefinition) ([]string, error) {
	if def == nil {
		return nil, errors.New("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	args := []string{
		s.indexName(def.Name),
		"ON", "JSON",
		"PREFIX", "1", s.keyPrefix(def.Name),
		"SCHEMA",
	}

	for i := range def.Fields {
		args = append(args, buildFieldArgs(&def.Fields[i])...)
	}
	return args, nil
}

// buildFieldArgs renders one schema field. Text fields get a second,
// case-sensitive TAG attribute serving exact (term) matches. Booleans are
// TAGs holding "true" or "false".
func buildFieldArgs(f *db.IndexField) []string {
	path := jsonPath(f)
	alias := fieldAlias(f.Name)

	switch f.Type {
	case db.IndexFieldText:
		return []string{
			path, "AS", alias, "TEXT",
			path, "AS", keywordAlias(f.Name), "TAG", "SEPARATOR", tagSeparator, "CASESENSITIVE",
		}
	case db.IndexFieldInteger, db.IndexFieldFloat:
		return []string{path, "AS", alias, "NUMERIC"}
	case db.IndexFieldBool:
		return []string{path, "AS", alias, "TAG"}
	default:
		return nil
	}
}

func jsonPath(f *db.IndexField) string {
	p := "$." + f.Name
	if f.Multi {
		p += "[*]"
	}
	return p
}

// fieldAlias maps a dotted document path to an attribute name usable after @.
func fieldAlias(field string) string {
	return strings.ReplaceAll(db.TrimKeyword(field), ".", "_")
}

func keywordAlias(field string) string {
	return fieldAlias(field) + "_kw"
}

func isNoSuchIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

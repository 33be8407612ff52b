package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tananushka/employees/internal/db"
)

const keywordIgnoreAbove = 256

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

// CreateIndex creates the index with an explicit mapping built from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	body, err := buildMapping(def)
	if err != nil {
		return err
	}

	res, err := s.es.Indices.Create(def.Name,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		re := decodeError(res)
		if re.Type == "resource_already_exists_exception" {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: re}
	}
	return nil
}

// DropIndex deletes the index together with its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	res, err := s.es.Indices.Delete([]string{name}, s.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return db.ErrIndexNotFound
	}
	if res.IsError() {
		return &db.Error{Op: db.OpDropIndex, Err: decodeError(res)}
	}
	return nil
}

// IndexExists probes the index with HEAD /<index>.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.es.Indices.Exists([]string{name}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	defer closeBody(res)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.IsError():
		return false, &db.Error{Op: db.OpIndexInfo, Err: decodeError(res)}
	default:
		return true, nil
	}
}

// buildMapping renders the create-index body. Dotted names become nested
// object properties; text fields carry a "keyword" sub-field for exact
// matching and aggregation filters.
func buildMapping(def *db.IndexDefinition) ([]byte, error) {
	if def == nil {
		return nil, errors.New("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	root := map[string]any{}
	for _, f := range def.Fields {
		props := root
		parts := strings.Split(f.Name, ".")
		for _, p := range parts[:len(parts)-1] {
			obj, ok := props[p].(map[string]any)
			if !ok {
				obj = map[string]any{"properties": map[string]any{}}
				props[p] = obj
			}
			props = obj["properties"].(map[string]any)
		}

		prop, err := fieldMapping(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		props[parts[len(parts)-1]] = prop
	}

	return json.Marshal(map[string]any{
		"mappings": map[string]any{"properties": root},
	})
}

func fieldMapping(t db.IndexFieldType) (map[string]any, error) {
	switch t {
	case db.IndexFieldText:
		return map[string]any{
			"type": "text",
			"fields": map[string]any{
				"keyword": map[string]any{"type": "keyword", "ignore_above": keywordIgnoreAbove},
			},
		}, nil
	case db.IndexFieldInteger:
		return map[string]any{"type": "integer"}, nil
	case db.IndexFieldFloat:
		return map[string]any{"type": "double"}, nil
	case db.IndexFieldBool:
		return map[string]any{"type": "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported field type %s", t)
	}
}

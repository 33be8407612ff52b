package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/tananushka/employees/internal/db"
)

// Put stores doc as a JSON document, replacing any previous version.
// EXISTS before JSON.SET tells created from updated; the two commands are not
// atomic, so concurrent writers of the same id may both see "created".
func (s *Store) Put(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error) {
	key := s.docKey(index, id)

	existsCmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, existsCmd).AsInt64()
	if err != nil {
		return "", &db.Error{Op: db.OpExists, Err: err}
	}

	setCmd := s.b().Arbitrary("JSON.SET").Keys(key).Args("$", string(doc)).Build()
	if err := s.do(ctx, setCmd).Error(); err != nil {
		return "", &db.Error{Op: db.OpPut, Err: err}
	}

	if count > 0 {
		return db.ResultUpdated, nil
	}
	return db.ResultCreated, nil
}

// Get returns the raw JSON document stored under id.
func (s *Store) Get(ctx context.Context, index, id string) ([]byte, error) {
	key := s.docKey(index, id)

	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrDocumentNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrDocumentNotFound
	}

	// JSON.GET with a $ path wraps the match in an array.
	var docs []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("decode json.get reply for %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, db.ErrDocumentNotFound
	}
	return docs[0], nil
}

// Delete removes the document; a missing key yields db.ResultNotFound.
func (s *Store) Delete(ctx context.Context, index, id string) (db.WriteResult, error) {
	cmd := s.b().Del().Key(s.docKey(index, id)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return "", &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		return db.ResultNotFound, nil
	}
	return db.ResultDeleted, nil
}

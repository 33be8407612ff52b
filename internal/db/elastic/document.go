package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/tananushka/employees/internal/db"
)

type writeResponse struct {
	Result string `json:"result"`
}

// Put indexes doc under id, replacing any previous version.
func (s *Store) Put(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error) {
	res, err := s.es.Index(index, bytes.NewReader(doc),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(id),
		s.es.Index.WithRefresh(s.refresh),
	)
	if err != nil {
		return "", &db.Error{Op: db.OpPut, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return "", &db.Error{Op: db.OpPut, Err: decodeError(res)}
	}

	var out writeResponse
	if err := decodeBody(res, &out); err != nil {
		return "", &db.Error{Op: db.OpPut, Err: err}
	}
	return db.WriteResult(out.Result), nil
}

// Get returns the _source of the document stored under id.
func (s *Store) Get(ctx context.Context, index, id string) ([]byte, error) {
	res, err := s.es.Get(index, id, s.es.Get.WithContext(ctx))
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		// Covers both a missing document and a missing index.
		return nil, db.ErrDocumentNotFound
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpGet, Err: decodeError(res)}
	}

	var out struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	if !out.Found || len(out.Source) == 0 {
		return nil, db.ErrDocumentNotFound
	}
	return out.Source, nil
}

// Delete removes the document. A 404 with result "not_found" is an outcome,
// not an error; a 404 for a missing index is reported the same way.
func (s *Store) Delete(ctx context.Context, index, id string) (db.WriteResult, error) {
	res, err := s.es.Delete(index, id,
		s.es.Delete.WithContext(ctx),
		s.es.Delete.WithRefresh(s.refresh),
	)
	if err != nil {
		return "", &db.Error{Op: db.OpDelete, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return db.ResultNotFound, nil
	}
	if res.IsError() {
		return "", &db.Error{Op: db.OpDelete, Err: decodeError(res)}
	}

	var out writeResponse
	if err := decodeBody(res, &out); err != nil {
		return "", &db.Error{Op: db.OpDelete, Err: err}
	}
	return db.WriteResult(out.Result), nil
}

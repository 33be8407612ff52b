package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tananushka/employees/internal/db"
)

// fakeCluster answers like Elasticsearch, including the product header the
// client checks on the first successful response.
func fakeCluster(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	s, err := NewStore(Config{Addrs: []string{srv.URL}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_DefaultRefresh(t *testing.T) {
	s, err := NewStore(Config{Addrs: []string{"http://localhost:9200"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.refresh != DefaultRefresh {
		t.Errorf("refresh = %q, want %q", s.refresh, DefaultRefresh)
	}
	if s.Driver() != "elasticsearch" {
		t.Errorf("driver = %q", s.Driver())
	}
}

func TestPing(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Unavailable(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- documents ---

func TestPut_Created(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees/_doc/1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("refresh"); got != "wait_for" {
			t.Errorf("refresh = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Ana"}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"1","result":"created"}`)
	})

	res, err := s.Put(context.Background(), "employees", "1", []byte(`{"name":"Ana"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != db.ResultCreated {
		t.Errorf("result = %q, want created", res)
	}
}

func TestPut_Updated(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"_id":"1","result":"updated"}`)
	})

	res, err := s.Put(context.Background(), "employees", "1", []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != db.ResultUpdated {
		t.Errorf("result = %q, want updated", res)
	}
}

func TestPut_Rejected(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [salary]"},"status":400}`)
	})

	_, err := s.Put(context.Background(), "employees", "1", []byte(`{"salary":"x"}`))
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %T (%v)", err, err)
	}
	var re *ResponseError
	if !errors.As(err, &re) || re.Type != "mapper_parsing_exception" {
		t.Errorf("expected mapper_parsing_exception, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees/_doc/1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"_id":"1","found":true,"_source":{"name":"Ana"}}`)
	})

	data, err := s.Get(context.Background(), "employees", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"Ana"}` {
		t.Errorf("data = %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"_id":"404","found":false}`)
	})

	_, err := s.Get(context.Background(), "employees", "404")
	if !errors.Is(err, db.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestGet_ServerError(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, err := s.Get(context.Background(), "employees", "1")
	if errors.Is(err, db.ErrDocumentNotFound) || !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	var re *ResponseError
	if !errors.As(err, &re) || re.Reason != "boom" {
		t.Errorf("expected string error reason, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   db.WriteResult
	}{
		{"deleted", http.StatusOK, `{"result":"deleted"}`, db.ResultDeleted},
		{"missing document", http.StatusNotFound, `{"result":"not_found"}`, db.ResultNotFound},
		{"missing index", http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`, db.ResultNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("method = %s", r.Method)
				}
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			res, err := s.Delete(context.Background(), "employees", "1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != tc.want {
				t.Errorf("result = %q, want %q", res, tc.want)
			}
		})
	}
}

// --- search ---

const twoHits = `{
  "hits": {
    "total": {"value": 2, "relation": "eq"},
    "hits": [
      {"_id": "1", "_source": {"name": "Ana Brown", "skills": ["Java", "AWS"]}},
      {"_id": "2", "_source": {"name": "Bo Diaz", "skills": ["Java"]}}
    ]
  }
}`

func TestSearch_Match(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees/_search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body := readJSON(t, r)
		match := body["query"].(map[string]any)["match"].(map[string]any)
		if match["skills"] != "Java" {
			t.Errorf("match = %v", match)
		}
		if body["from"] != float64(0) || body["size"] != float64(10) {
			t.Errorf("paging = %v/%v", body["from"], body["size"])
		}
		_, _ = io.WriteString(w, twoHits)
	})

	res, err := s.Search(context.Background(), &db.SearchQuery{
		Index: "employees",
		Query: db.Match("skills", "Java"),
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Hits) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Hits[0].ID != "1" || !strings.Contains(string(res.Hits[0].Source), "Ana Brown") {
		t.Errorf("first hit = %+v", res.Hits[0])
	}
}

func TestSearch_TermUsesKeyword(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		term := body["query"].(map[string]any)["term"].(map[string]any)
		if term["address.town"+db.KeywordSuffix] != "New York" {
			t.Errorf("term = %v", term)
		}
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":0},"hits":[]}}`)
	})

	res, err := s.Search(context.Background(), &db.SearchQuery{
		Index: "employees",
		Query: db.Term("address.town", "New York"),
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 0 {
		t.Errorf("expected no hits, got %d", len(res.Hits))
	}
}

func TestSearch_ListPaging(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		if _, ok := body["query"].(map[string]any)["match_all"]; !ok {
			t.Errorf("query = %v", body["query"])
		}
		if body["from"] != float64(20) || body["size"] != float64(10) {
			t.Errorf("paging = %v/%v", body["from"], body["size"])
		}
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":0},"hits":[]}}`)
	})

	_, err := s.Search(context.Background(), &db.SearchQuery{
		Index:  "employees",
		Query:  db.MatchAll(),
		Offset: 20,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	if _, err := s.Search(ctx, &db.SearchQuery{Limit: 10}); err == nil {
		t.Error("expected error for empty index")
	}
	if _, err := s.Search(ctx, &db.SearchQuery{Index: "employees"}); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := s.Search(ctx, &db.SearchQuery{Index: "employees", Limit: 1, Offset: -1}); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestSearch_MissingIndex(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception","reason":"no such index [employees]"},"status":404}`)
	})

	_, err := s.Search(context.Background(), &db.SearchQuery{Index: "employees", Limit: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_ShardFailure(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"search_phase_execution_exception","reason":"all shards failed"},"status":400}`)
	})

	_, err := s.Search(context.Background(), &db.SearchQuery{Index: "employees", Limit: 10})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- aggregate ---

func TestAggregate_Value(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		if body["size"] != float64(0) {
			t.Errorf("size = %v", body["size"])
		}
		term := body["query"].(map[string]any)["term"].(map[string]any)
		if term["skills.keyword"] != "Java" {
			t.Errorf("term = %v", term)
		}
		agg := body["aggs"].(map[string]any)["avg_salary"].(map[string]any)["avg"].(map[string]any)
		if agg["field"] != "salary" {
			t.Errorf("agg = %v", agg)
		}
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[]},"aggregations":{"avg_salary":{"value":35000.0}}}`)
	})

	v, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		Index:  "employees",
		Name:   "avg_salary",
		Filter: db.Term("skills.keyword", "Java"),
		Metric: db.MetricAvg,
		Field:  "salary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil || *v != 35000 {
		t.Fatalf("value = %v, want 35000", v)
	}
}

func TestAggregate_NullValue(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"aggregations":{"max_rating":{"value":null}}}`)
	})

	v, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		Index:  "employees",
		Filter: db.Term("skills", "Cobol"),
		Metric: db.MetricMax,
		Field:  "rating",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil, got %v", *v)
	}
}

func TestAggregate_UnsupportedMetric(t *testing.T) {
	s := &Store{}
	_, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		Index: "employees", Metric: "sum", Field: "salary",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- indices ---

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	var created bool
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			body := readJSON(t, r)
			props := body["mappings"].(map[string]any)["properties"].(map[string]any)
			town := props["address"].(map[string]any)["properties"].(map[string]any)["town"].(map[string]any)
			if town["type"] != "text" {
				t.Errorf("address.town mapping = %v", town)
			}
			_, _ = io.WriteString(w, `{"acknowledged":true}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	def := db.NewIndex("employees").Text("name").Text("address.town").Integer("salary").MustBuild()
	if err := s.EnsureIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("index was not created")
	}
}

func TestEnsureIndex_Exists(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})

	def := db.NewIndex("employees").Text("name").MustBuild()
	if err := s.EnsureIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"resource_already_exists_exception","reason":"index [employees] already exists"},"status":400}`)
	})

	def := db.NewIndex("employees").Text("name").MustBuild()
	err := s.CreateIndex(context.Background(), def)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})

	err := s.DropIndex(context.Background(), "employees")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestBuildMapping(t *testing.T) {
	def := db.NewIndex("employees").
		Text("name").
		Text("address.country").
		Text("address.town").
		TextArray("skills").
		Integer("experience").
		Float("rating").
		Bool("verified").
		MustBuild()

	raw, err := buildMapping(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var m struct {
		Mappings struct {
			Properties map[string]struct {
				Type       string `json:"type"`
				Properties map[string]struct {
					Type string `json:"type"`
				} `json:"properties"`
				Fields map[string]struct {
					Type        string `json:"type"`
					IgnoreAbove int    `json:"ignore_above"`
				} `json:"fields"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	props := m.Mappings.Properties
	if props["name"].Type != "text" || props["name"].Fields["keyword"].Type != "keyword" {
		t.Errorf("name mapping = %+v", props["name"])
	}
	if props["name"].Fields["keyword"].IgnoreAbove != 256 {
		t.Errorf("ignore_above = %d", props["name"].Fields["keyword"].IgnoreAbove)
	}
	if props["skills"].Type != "text" {
		t.Errorf("skills mapping = %+v", props["skills"])
	}
	if len(props["address"].Properties) != 2 || props["address"].Properties["country"].Type != "text" {
		t.Errorf("address mapping = %+v", props["address"])
	}
	for field, want := range map[string]string{"experience": "integer", "rating": "double", "verified": "boolean"} {
		if props[field].Type != want {
			t.Errorf("%s type = %q, want %q", field, props[field].Type, want)
		}
	}
}

func TestBuildMapping_Invalid(t *testing.T) {
	if _, err := buildMapping(nil); err == nil {
		t.Error("expected error for nil definition")
	}
	if _, err := buildMapping(&db.IndexDefinition{Name: "employees"}); err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestKeywordField(t *testing.T) {
	tests := map[string]string{
		"skills":               "skills.keyword",
		"skills.keyword":       "skills.keyword",
		"address.town":         "address.town.keyword",
		"address.town.keyword": "address.town.keyword",
	}
	for in, want := range tests {
		if got := keywordField(in); got != want {
			t.Errorf("keywordField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearch_NonTextFieldsSkipKeyword(t *testing.T) {
	tests := []struct {
		name  string
		q     db.Query
		kind  string
		field string
	}{
		{"match integer", db.Match("salary", "30000").On(db.IndexFieldInteger), "match", "salary"},
		{"term integer", db.Term("salary", "30000").On(db.IndexFieldInteger), "term", "salary"},
		{"term bool", db.Term("verified", "true").On(db.IndexFieldBool), "term", "verified"},
		{"term float with suffix", db.Term("rating.keyword", "8.5").On(db.IndexFieldFloat), "term", "rating"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := buildQuery(tc.q)
			clause, ok := got[tc.kind].(map[string]any)
			if !ok {
				t.Fatalf("query = %v, want %s clause", got, tc.kind)
			}
			if clause[tc.field] != tc.q.Value || len(clause) != 1 {
				t.Errorf("clause = %v, want %s=%s", clause, tc.field, tc.q.Value)
			}
		})
	}
}

func TestAggregate_NumericFilter(t *testing.T) {
	s := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		term := body["query"].(map[string]any)["term"].(map[string]any)
		if term["experience"] != "7" {
			t.Errorf("term = %v", term)
		}
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[]},"aggregations":{"min_salary":{"value":30000.0}}}`)
	})

	v, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		Index:  "employees",
		Name:   "min_salary",
		Filter: db.Match("experience", "7").On(db.IndexFieldInteger),
		Metric: db.MetricMin,
		Field:  "salary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil || *v != 30000 {
		t.Errorf("value = %v, want 30000", v)
	}
}

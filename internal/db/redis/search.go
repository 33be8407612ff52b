package redis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/rueidis"

	"github.com/tananushka/employees/internal/db"
)

// Search runs FT.SEARCH and returns the JSON source of each hit.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, errors.New("offset must not be negative")
	}

	queryStr, ok := buildQuery(q.Query)
	if !ok {
		return &db.SearchResult{}, nil
	}

	args := []string{
		s.indexName(q.Index), queryStr,
		"RETURN", "1", "$",
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isNoSuchIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, s.keyPrefix(q.Index))
}

// Aggregate runs FT.AGGREGATE with a single GROUPBY 0 reducer.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*float64, error) {
	if q.Index == "" {
		return nil, errors.New("index name is required")
	}
	if q.Field == "" {
		return nil, errors.New("metric field is required")
	}

	reducer, err := reducerName(q.Metric)
	if err != nil {
		return nil, err
	}

	filter := q.Filter
	if filter.Kind == db.QueryMatch {
		// Filters are exact by contract.
		filter.Kind = db.QueryTerm
	}
	queryStr, ok := buildQuery(filter)
	if !ok {
		return nil, nil
	}

	const metricAttr = "__metric"
	args := []string{
		s.indexName(q.Index), queryStr,
		"LOAD", "3", "$." + db.TrimKeyword(q.Field), "AS", metricAttr,
		"GROUPBY", "0",
		"REDUCE", reducer, "1", "@" + metricAttr, "AS", "value",
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isNoSuchIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateResult(raw)
}

func reducerName(m db.Metric) (string, error) {
	switch m {
	case db.MetricAvg:
		return "AVG", nil
	case db.MetricMin:
		return "MIN", nil
	case db.MetricMax:
		return "MAX", nil
	default:
		return "", fmt.Errorf("unsupported metric %q", m)
	}
}

// buildQuery translates a db.Query into FT query syntax.
// ok=false means the query can match nothing (no searchable tokens, or a
// value that does not fit the field type).
func buildQuery(q db.Query) (string, bool) {
	if q.Kind != db.QueryMatchAll {
		switch q.Type {
		case db.IndexFieldInteger, db.IndexFieldFloat:
			v, err := strconv.ParseFloat(strings.TrimSpace(q.Value), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return "", false
			}
			n := strconv.FormatFloat(v, 'f', -1, 64)
			return fmt.Sprintf("@%s:[%s %s]", fieldAlias(q.Field), n, n), true
		case db.IndexFieldBool:
			b, err := strconv.ParseBool(strings.TrimSpace(q.Value))
			if err != nil {
				return "", false
			}
			return fmt.Sprintf("@%s:{%s}", fieldAlias(q.Field), strconv.FormatBool(b)), true
		}
	}
	switch q.Kind {
	case db.QueryMatch:
		tokens := tokenize(q.Value)
		if len(tokens) == 0 {
			return "", false
		}
		// Any token may match, as with the default match operator.
		return fmt.Sprintf("@%s:(%s)", fieldAlias(q.Field), strings.Join(tokens, "|")), true
	case db.QueryTerm:
		return fmt.Sprintf("@%s:{%s}", keywordAlias(q.Field), tagEscaper.Replace(q.Value)), true
	default:
		return "*", true
	}
}

// tokenize splits text on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, keyPrefix string) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	hits := make([]db.Hit, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		source := parseFieldPairs(fields)["$"]
		if source == "" {
			continue
		}

		hits = append(hits, db.Hit{
			ID:     strings.TrimPrefix(key, keyPrefix),
			Source: []byte(source),
		})
	}

	return &db.SearchResult{Total: int(total), Hits: hits}, nil
}

// parseAggregateResult reads the "value" column of the single GROUPBY 0 row.
// An empty group reduces to nan/inf, which is reported as no value.
func parseAggregateResult(raw []rueidis.RedisMessage) (*float64, error) {
	if len(raw) < 2 {
		return nil, nil
	}

	row, err := raw[1].ToArray()
	if err != nil {
		return nil, fmt.Errorf("parse aggregate row: %w", err)
	}

	str, ok := parseFieldPairs(row)["value"]
	if !ok || str == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil, fmt.Errorf("parse aggregate value %q: %w", str, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

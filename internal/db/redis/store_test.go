package redis

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/memorialdex/internal/db"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsRedisErr(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisError("ERR Unknown Index Name")))

	err := NewStoreForTest(c).do(context.Background(), c.B().Ping().Build()).Error()
	if !isRedisErr(err, "unknown index name") {
		t.Errorf("expected case-insensitive match for %v", err)
	}
	if isRedisErr(context.Canceled, "canceled") {
		t.Error("non-redis error must not match")
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "memorial:1"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.HSet(context.Background(), "memorial:1", map[string]string{"name": "Ada"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "memorial:1", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "memorial:1", Fields: map[string]string{"name": "Ada"}},
		{Key: "memorial:2", Fields: map[string]string{"name": "Grace"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "memorial:1", Fields: map[string]string{"name": "Ada"}},
		{Key: "memorial:2", Fields: map[string]string{"name": "Grace"}},
	})
	if err == nil || !strings.Contains(err.Error(), "memorial:2") {
		t.Fatalf("expected error naming memorial:2, got %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- kv.go tests ---

func TestIncrBy_ReturnsValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCRBY", "rl:search:1", "1")).
		Return(mock.Result(mock.RedisInt64(7)))

	s := NewStoreForTest(c)
	n, err := s.IncrBy(context.Background(), "rl:search:1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("IncrBy = %d, want 7", n)
	}
}

func TestIncrBy_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCRBY", "k", "1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := NewStoreForTest(c).IncrBy(context.Background(), "k", 1)
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestExpire_WithoutNX(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXPIRE", "k", "60")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Expire(context.Background(), "k", time.Minute, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpire_WithNX(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXPIRE", "k", "300", "NX")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Expire(context.Background(), "k", 5*time.Minute, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTTL(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want time.Duration
	}{
		{"remaining", 1500, 1500 * time.Millisecond},
		{"no expiry", -1, 0},
		{"missing key", -2, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("PTTL", "k")).
				Return(mock.Result(mock.RedisInt64(tc.ms)))

			got, err := NewStoreForTest(c).TTL(context.Background(), "k")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("TTL = %v, want %v", got, tc.want)
			}
		})
	}
}

// --- stream.go tests ---

func TestXAdd_WithMaxLen(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return slices.Equal(cmd[:6], []string{"XADD", "log", "MAXLEN", "~", "1000", "*"}) &&
				slices.Contains(cmd, "query") && slices.Contains(cmd, "smith")
		})).
		Return(mock.Result(mock.RedisString("1700000000000-0")))

	s := NewStoreForTest(c)
	id, err := s.XAdd(context.Background(), "log", map[string]string{"query": "smith"}, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "1700000000000-0" {
		t.Errorf("id = %q", id)
	}
}

func TestXAdd_Unbounded(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("XADD", "log", "*", "query", "smith")).
		Return(mock.Result(mock.RedisString("1-0")))

	s := NewStoreForTest(c)
	if _, err := s.XAdd(context.Background(), "log", map[string]string{"query": "smith"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestXAdd_NoFields(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.XAdd(context.Background(), "log", nil, 10); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestXRevRange_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("XREVRANGE", "log", "+", "1000", "COUNT", "50")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisArray(
				mock.RedisString("1001-0"),
				mock.RedisArray(mock.RedisString("query"), mock.RedisString("jones")),
			),
			mock.RedisArray(
				mock.RedisString("1000-0"),
				mock.RedisArray(mock.RedisString("query"), mock.RedisString("smith")),
			),
		)))

	s := NewStoreForTest(c)
	entries, err := s.XRevRange(context.Background(), "log", "+", "1000", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "1001-0" || entries[0].Fields["query"] != "jones" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
}

func TestXRevRange_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("XREVRANGE", "log", "+", "-")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := NewStoreForTest(c).XRevRange(context.Background(), "log", "+", "-", 0)
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == "memorial:idx" &&
				slices.Contains(cmd, "PREFIX") && slices.Contains(cmd, "SORTABLE")
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx := db.NewIndex("memorial:idx").
		Prefix("memorial:").
		TextWeighted("name", 5, true).
		Tag("privacy").
		MustBuild()
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "memorial:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "memorial:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	if err := s.CreateIndex(context.Background(), idx); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "memorial:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "memorial:idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name   string
		result rueidis.RedisResult
		want   bool
	}{
		{"present", mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("memorial:idx"))), true},
		{"absent", mock.Result(mock.RedisError("Unknown Index name")), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "memorial:idx")).
				Return(tc.result)

			exists, err := NewStoreForTest(c).IndexExists(context.Background(), "memorial:idx")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tc.want {
				t.Errorf("exists = %v, want %v", exists, tc.want)
			}
		})
	}
}

func TestBuildCreateArgs_Validation(t *testing.T) {
	_, err := buildCreateArgs(&db.IndexDefinition{Name: "", Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}}})
	if err == nil {
		t.Error("expected error for empty name")
	}

	_, err = buildCreateArgs(&db.IndexDefinition{Name: "test"})
	if err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestBuildFieldArgs(t *testing.T) {
	tests := []struct {
		name  string
		field db.IndexField
		want  []string
	}{
		{"tag", db.IndexField{Name: "f", Type: db.IndexFieldTag}, []string{"f", "TAG"}},
		{"numeric sortable", db.IndexField{Name: "f", Type: db.IndexFieldNumeric, Sortable: true}, []string{"f", "NUMERIC", "SORTABLE"}},
		{"text", db.IndexField{Name: "f", Type: db.IndexFieldText}, []string{"f", "TEXT"}},
		{"text weighted", db.IndexField{Name: "f", Type: db.IndexFieldText, TextWeight: 3, Sortable: true},
			[]string{"f", "TEXT", "WEIGHT", "3", "SORTABLE"}},
		{"tag options", db.IndexField{Name: "f", Type: db.IndexFieldTag, TagSeparator: ",", TagCaseSensitive: true},
			[]string{"f", "TAG", "SEPARATOR", ",", "CASESENSITIVE"}},
		{"alias", db.IndexField{Name: "f", Alias: "g", Type: db.IndexFieldTag}, []string{"f", "AS", "g", "TAG"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := buildFieldArgs(&tc.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(args, tc.want) {
				t.Errorf("args = %v, want %v", args, tc.want)
			}
		})
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	if _, err := buildFieldArgs(&db.IndexField{Name: "", Type: db.IndexFieldTag}); err == nil {
		t.Error("expected error for empty field name")
	}
	if _, err := buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)}); err == nil {
		t.Error("expected error for unknown type")
	}
}

// --- search.go tests ---

func TestSearch_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expr := mustExpr(t, []filter.Condition{
		mustText(t, mustTerm(t, "smith")),
		mustMatch(t, "privacy", "public"),
	}, nil, nil)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "memorial:idx" &&
				cmd[2] == "smith @privacy:{public}" &&
				slices.Contains(cmd, "WITHSCORES") &&
				slices.Contains(cmd, "DIALECT")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("memorial:1"),
			mock.RedisString("2.5"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("John Smith")),
			mock.RedisString("memorial:2"),
			mock.RedisString("1.25"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("Jane Smith")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName:  "memorial:idx",
		Filters:    expr,
		Limit:      20,
		WithScores: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("total=%d entries=%d", res.Total, len(res.Entries))
	}
	if res.Entries[0].Score != 2.5 || res.Entries[0].Fields["name"] != "John Smith" {
		t.Errorf("entry[0] = %+v", res.Entries[0])
	}
}

func TestSearch_SortedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "memorial:idx", "*",
			"RETURN", "1", "name",
			"SORTBY", "created_at", "ASC",
			"LIMIT", "40", "20",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(41),
			mock.RedisString("memorial:9"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("Ada")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName:    "memorial:idx",
		SortBy:       "created_at",
		Ascending:    true,
		Offset:       40,
		Limit:        20,
		ReturnFields: []string{"name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 41 || len(res.Entries) != 1 || res.Entries[0].Key != "memorial:9" {
		t.Errorf("result = %+v", res)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := NewStoreForTest(c).Search(context.Background(), &db.SearchQuery{IndexName: "idx", Limit: 1})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	for _, q := range []*db.SearchQuery{nil, {}, {IndexName: "idx", Limit: -1}} {
		if _, err := s.Search(context.Background(), q); err == nil {
			t.Errorf("expected error for %+v", q)
		}
	}
}

func TestSearchCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	r, err := filter.NewRangeFilter(nil, ptr(1000), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cond, err := filter.NewRange("created_at", r)
	if err != nil {
		t.Fatal(err)
	}

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "memorial:idx", "@created_at:[$p0 +inf]",
			"LIMIT", "0", "0",
			"PARAMS", "2", "p0", "1000",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(12))))

	n, err := NewStoreForTest(c).SearchCount(context.Background(), &db.SearchQuery{
		IndexName: "memorial:idx",
		Filters:   mustExpr(t, []filter.Condition{cond}, nil, nil),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("count = %d, want 12", n)
	}
}

// --- rendering tests ---

func TestRenderExpression_Empty(t *testing.T) {
	q, params := renderExpression(filter.Expression{})
	if q != "*" || params != nil {
		t.Errorf("got %q %v", q, params)
	}
}

func TestRenderExpression_Range(t *testing.T) {
	r, err := filter.NewRangeFilter(ptr(1.5), nil, nil, ptr(99))
	if err != nil {
		t.Fatal(err)
	}
	cond, err := filter.NewRange("death_ts", r)
	if err != nil {
		t.Fatal(err)
	}

	q, params := renderExpression(mustExpr(t, []filter.Condition{cond}, nil, nil))
	if q != "@death_ts:[($p0 $p1]" {
		t.Errorf("query = %q", q)
	}
	if !slices.Equal(params, []string{"p0", "1.5", "p1", "99"}) {
		t.Errorf("params = %v", params)
	}
}

func TestRenderExpression_ShouldAndMustNot(t *testing.T) {
	expr := mustExpr(t,
		[]filter.Condition{mustMatch(t, "privacy", "public")},
		[]filter.Condition{mustMatch(t, "tags", "veteran"), mustMatch(t, "tags", "teacher")},
		[]filter.Condition{mustMatch(t, "has_photos", "0")},
	)
	q, _ := renderExpression(expr)
	want := "@privacy:{public} (@tags:{veteran} | @tags:{teacher}) -@has_photos:{0}"
	if q != want {
		t.Errorf("query = %q, want %q", q, want)
	}
}

func TestRenderExpression_TagEscaping(t *testing.T) {
	q, _ := renderExpression(mustExpr(t, []filter.Condition{mustMatch(t, "death_city", "St. Louis}|@x:{*")}, nil, nil))
	want := `@death_city:{St\.\ Louis\}\|\@x\:\{\*}`
	if q != want {
		t.Errorf("query = %q, want %q", q, want)
	}
}

func TestRenderExpression_TextTerms(t *testing.T) {
	grave, err := filter.NewTerm("grave", "burial", "resting place")
	if err != nil {
		t.Fatal(err)
	}
	terms := []filter.Term{
		mustTerm(t, "johnson").WithFuzzy(),
		mustTerm(t, "ma").WithPrefix(),
		grave,
	}
	q, _ := renderExpression(mustExpr(t, []filter.Condition{mustText(t, terms...)}, nil, nil))
	want := "(johnson | %johnson%) (ma | ma*) (grave | burial | (resting place))"
	if q != want {
		t.Errorf("query = %q, want %q", q, want)
	}
}

func TestRenderExpression_TextInjection(t *testing.T) {
	q, _ := renderExpression(mustExpr(t, []filter.Condition{mustText(t, mustTerm(t, "x)|@privacy:{private}"))}, nil, nil))
	if strings.Contains(q, "@privacy:{") {
		t.Errorf("unescaped field reference leaked into query: %q", q)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func ptr(v float64) *float64 { return &v }

func mustExpr(t *testing.T, must, should, mustNot []filter.Condition) filter.Expression {
	t.Helper()
	e, err := filter.NewExpression(must, should, mustNot)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func mustMatch(t *testing.T, key, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(key, value)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustTerm(t *testing.T, word string) filter.Term {
	t.Helper()
	term, err := filter.NewTerm(word)
	if err != nil {
		t.Fatal(err)
	}
	return term
}

func mustText(t *testing.T, terms ...filter.Term) filter.Condition {
	t.Helper()
	txt, err := filter.NewTextMatch(terms)
	if err != nil {
		t.Fatal(err)
	}
	c, err := filter.NewText(txt)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

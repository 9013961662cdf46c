package match

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "tamis/entity"
)

func leaf(field, op, val string) *nt.Leaf {
	return &nt.Leaf{ID: field + op, Field: field, Operator: op, Value: val}
}

func TestLeafOperators(t *testing.T) {

	rec := Record{"age": "42", "name": "Bobby", "level": "error"}

	tests := []struct {
		leaf *nt.Leaf
		want bool
	}{
		{leaf("age", nt.OpIs, "42"), true},
		{leaf("age", nt.OpIs, "42.0"), true},
		{leaf("age", nt.OpIsNot, "42"), false},
		{leaf("age", nt.OpGreater, "9"), true},
		{leaf("age", nt.OpLess, "100"), true},
		{leaf("name", nt.OpGreater, "Alice"), true},
		{leaf("name", nt.OpContains, "ob"), true},
		{leaf("name", nt.OpContains, "ann"), false},
		{leaf("name", nt.OpMatches, `^Bob+y$`), true},
		{leaf("level", nt.OpMatches, `(?i)^ERR`), true},
		{leaf("missing", nt.OpIs, ""), true},
		{leaf("missing", nt.OpIsNot, "x"), true},
	}

	for _, tc := range tests {
		t.Run(tc.leaf.Field+" "+tc.leaf.Operator+" "+tc.leaf.Value, func(t *testing.T) {
			mtc, err := New(tc.leaf)
			require.NoError(t, err)
			assert.Equal(t, tc.want, mtc.Match(rec))
		})
	}
}

func TestGroups(t *testing.T) {

	filter := &nt.Group{ID: "r", Condition: nt.And, Children: []nt.Node{
		leaf("level", nt.OpIs, "error"),
		&nt.Group{ID: "g", Condition: nt.Or, Children: []nt.Node{
			leaf("service", nt.OpIs, "api"),
			leaf("latency", nt.OpGreater, "500"),
		}},
	}}

	mtc, err := New(filter)
	require.NoError(t, err)

	assert.True(t, mtc.Match(Record{"level": "error", "service": "api"}))
	assert.True(t, mtc.Match(Record{"level": "error", "service": "db", "latency": "900"}))
	assert.False(t, mtc.Match(Record{"level": "error", "service": "db", "latency": "90"}))
	assert.False(t, mtc.Match(Record{"level": "info", "service": "api"}))
}

func TestNewRejects(t *testing.T) {

	_, err := New(leaf("a", "is roughly", "1"))
	assert.ErrorContains(t, err, "unknown operator")

	_, err = New(&nt.Group{ID: "r", Condition: nt.Or, Children: []nt.Node{leaf("a", nt.OpMatches, "(")}})
	assert.ErrorContains(t, err, "bad pattern")

	_, err = New(nil)
	assert.Error(t, err)
}

func TestFromMap(t *testing.T) {

	rec := FromMap(map[string]any{
		"msg":   "hi",
		"count": float64(3),
		"ok":    true,
		"none":  nil,
		"http":  map[string]any{"status": float64(404)},
	})

	assert.Equal(t, Record{"msg": "hi", "count": "3", "ok": "true", "none": "", "http.status": "404"}, rec)
}

func TestMatches(t *testing.T) {

	ok, err := Matches(leaf("a", nt.OpIs, "1"), Record{"a": "1"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Matches(leaf("a", "near", "1"), Record{"a": "1"})
	assert.Error(t, err)
}

func TestMatchTimeout(t *testing.T) {

	pattern := `^(a+)+$`
	mtc, err := New(leaf("msg", nt.OpMatches, pattern))
	require.NoError(t, err)
	assert.Equal(t, MatchTimeout, mtc.regexes[pattern].MatchTimeout)

	saved := MatchTimeout
	MatchTimeout = 20 * time.Millisecond
	defer func() { MatchTimeout = saved }()

	mtc, err = New(leaf("msg", nt.OpMatches, pattern))
	require.NoError(t, err)

	start := time.Now()
	assert.False(t, mtc.Match(Record{"msg": strings.Repeat("a", 64) + "!"}))
	assert.Less(t, time.Since(start), 5*time.Second)
}

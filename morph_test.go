package morph

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/viant/morph/codegen"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
)

type address struct {
	City string `morph:"city"`
	Zip  string `morph:"zip,omitempty"`
}

type account struct {
	Id        int                    `morph:"id"`
	Name      string                 `morph:"name"`
	Role      string                 `morph:"role,default=viewer"`
	Score     *float64               `morph:"score"`
	Tags      []string               `morph:"tags,omitempty"`
	Limits    map[string]int         `morph:"limits,omitempty"`
	Address   address                `morph:"address,omitempty"`
	Contacts  []address              `morph:"contacts,omitempty"`
	CreatedAt time.Time              `morph:"created_at" format:"timelayout=2006-01-02"`
	Extra     map[string]interface{} `morph:",extra"`
}

func TestService_Load(t *testing.T) {
	var testCases = []struct {
		description string
		options     []Option
		data        interface{}
		expect      account
		expectErr   string
	}{
		{
			description: "complete document",
			data: map[string]interface{}{
				"id":         1.0,
				"name":       "alpha",
				"role":       "admin",
				"score":      7.5,
				"tags":       []interface{}{"a", "b"},
				"limits":     map[string]interface{}{"daily": 10.0},
				"address":    map[string]interface{}{"city": "Rome", "zip": "00100"},
				"contacts":   []interface{}{map[string]interface{}{"city": "Milan"}},
				"created_at": "2026-08-30",
			},
			expect: account{
				Id:        1,
				Name:      "alpha",
				Role:      "admin",
				Score:     floatPtr(7.5),
				Tags:      []string{"a", "b"},
				Limits:    map[string]int{"daily": 10},
				Address:   address{City: "Rome", Zip: "00100"},
				Contacts:  []address{{City: "Milan"}},
				CreatedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
				Extra:     map[string]interface{}{},
			},
		},
		{
			description: "defaults and extra collection",
			data: map[string]interface{}{
				"id":         2.0,
				"name":       "beta",
				"created_at": "2026-01-15",
				"legacy":     true,
				"rank":       3.0,
			},
			expect: account{
				Id:        2,
				Name:      "beta",
				Role:      "viewer",
				CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				Extra:     map[string]interface{}{"legacy": true, "rank": 3.0},
			},
		},
		{
			description: "missing required without trail",
			data: map[string]interface{}{
				"name":       "gamma",
				"created_at": "2026-01-15",
			},
			expectErr: "missing required value",
		},
		{
			description: "first trail names the failing key",
			options:     []Option{WithTrail(trail.First)},
			data: map[string]interface{}{
				"name":       "gamma",
				"created_at": "2026-01-15",
			},
			expectErr: "at id: missing required value",
		},
		{
			description: "all trail aggregates failures in declaration order",
			options:     []Option{WithStrictCoercion(), WithTrail(trail.All)},
			data: map[string]interface{}{
				"name":       true,
				"created_at": "2026-01-15",
			},
			expectErr: "2 load failure(s): at id: missing required value; at name: expected string, had bool",
		},
		{
			description: "nested failures fold into the aggregate path",
			options:     []Option{WithStrictCoercion(), WithTrail(trail.All)},
			data: map[string]interface{}{
				"id":         1.0,
				"name":       "alpha",
				"created_at": "2026-08-30",
				"tags":       []interface{}{"a", 1.0, "c", true},
			},
			expectErr: "2 load failure(s): at tags[1]: expected string, had float64; at tags[3]: expected string, had bool",
		},
		{
			description: "strict coercion rejects numeric strings",
			options:     []Option{WithStrictCoercion(), WithTrail(trail.First)},
			data: map[string]interface{}{
				"id":         "1",
				"name":       "alpha",
				"created_at": "2026-08-30",
			},
			expectErr: "at id: expected integer, had string",
		},
		{
			description: "lenient coercion parses numeric strings",
			data: map[string]interface{}{
				"id":         "1",
				"name":       "alpha",
				"created_at": "2026-08-30",
			},
			expect: account{
				Id:        1,
				Name:      "alpha",
				Role:      "viewer",
				CreatedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
				Extra:     map[string]interface{}{},
			},
		},
	}

	for _, testCase := range testCases {
		service := New(testCase.options...)
		target := account{}
		err := service.Load(testCase.data, &target)
		if testCase.expectErr != "" {
			if !assert.NotNil(t, err, testCase.description) {
				continue
			}
			assert.EqualValues(t, testCase.expectErr, err.Error(), testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		if diff := cmp.Diff(testCase.expect, target); diff != "" {
			t.Errorf("%v: unexpected target (-want +got):\n%s", testCase.description, diff)
		}
	}
}

func TestService_RoundTrip(t *testing.T) {
	service := New()
	source := account{
		Id:        7,
		Name:      "alpha",
		Role:      "admin",
		Score:     floatPtr(1.25),
		Tags:      []string{"x"},
		Limits:    map[string]int{"daily": 5},
		Address:   address{City: "Rome", Zip: "00100"},
		Contacts:  []address{{City: "Milan"}, {City: "Turin", Zip: "10100"}},
		CreatedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Extra:     map[string]interface{}{"legacy": true},
	}

	dumped, err := service.Dump(source)
	if !assert.Nil(t, err) {
		return
	}
	tree, ok := dumped.(map[string]interface{})
	if !assert.True(t, ok) {
		return
	}
	assert.EqualValues(t, 7, tree["id"])
	assert.EqualValues(t, "2026-08-30", tree["created_at"])
	assert.EqualValues(t, true, tree["legacy"])
	_, hasExtraKey := tree["Extra"]
	assert.False(t, hasExtraKey)

	reloaded := account{}
	if !assert.Nil(t, service.Load(dumped, &reloaded)) {
		return
	}
	if diff := cmp.Diff(source, reloaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestService_DumpPointer(t *testing.T) {
	service := New()
	value := &address{City: "Rome"}
	dumped, err := service.Dump(value)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, map[string]interface{}{"city": "Rome", "zip": ""}, dumped)
}

type node struct {
	Id   int   `morph:"id"`
	Next *node `morph:"next"`
}

func TestService_CyclicType(t *testing.T) {
	service := New()
	data := map[string]interface{}{
		"id": 1.0,
		"next": map[string]interface{}{
			"id": 2.0,
			"next": map[string]interface{}{
				"id":   3.0,
				"next": nil,
			},
		},
	}
	target := node{}
	if !assert.Nil(t, service.Load(data, &target)) {
		return
	}
	expect := node{Id: 1, Next: &node{Id: 2, Next: &node{Id: 3}}}
	if diff := cmp.Diff(expect, target); diff != "" {
		t.Errorf("unexpected list (-want +got):\n%s", diff)
	}

	dumped, err := service.Dump(target)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, map[string]interface{}{
		"id": 1,
		"next": map[string]interface{}{
			"id": 2,
			"next": map[string]interface{}{
				"id":   3,
				"next": nil,
			},
		},
	}, dumped)
}

func TestService_Memoization(t *testing.T) {
	compiled := 0
	service := New(WithCodeGenHook(func(source string, namespace *codegen.ContextNamespace) {
		compiled++
	}))
	first, err := service.LoaderFor(reflect.TypeOf(address{}))
	if !assert.Nil(t, err) {
		return
	}
	builds := compiled
	assert.True(t, builds > 0)
	second, err := service.LoaderFor(reflect.TypeOf(address{}))
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, builds, compiled)
	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
}

func TestService_NoProvider(t *testing.T) {
	service := New()
	_, err := service.LoaderFor(reflect.TypeOf(make(chan int)))
	if !assert.NotNil(t, err) {
		return
	}
	var noProvider *provide.NoProviderError
	assert.True(t, errors.As(err, &noProvider))
	assert.True(t, errors.Is(err, provide.ErrCannotProvide))
}

func TestService_UserProviderPriority(t *testing.T) {
	service := New(WithProviders(upperCaseProvider{}))
	target := address{}
	data := map[string]interface{}{"city": "rome", "zip": "00100"}
	if !assert.Nil(t, service.Load(data, &target)) {
		return
	}
	assert.EqualValues(t, address{City: "ROME", Zip: "00100"}, target)
}

type upperCaseProvider struct{}

func (p upperCaseProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	req, ok := request.(provide.FieldLoaderRequest)
	if !ok || req.Field != "City" {
		return nil, provide.ErrCannotProvide
	}
	return provide.Loader(func(value interface{}) (interface{}, error) {
		text, ok := value.(string)
		if !ok {
			return nil, trail.NewErrorf("expected string, had %T", value)
		}
		return toUpper(text), nil
	}), nil
}

func toUpper(text string) string {
	result := []rune(text)
	for i, r := range result {
		if r >= 'a' && r <= 'z' {
			result[i] = r - 32
		}
	}
	return string(result)
}

func floatPtr(value float64) *float64 {
	return &value
}

package conv

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
)

func TestLoaderProvider_Provide(t *testing.T) {
	var testCases = []struct {
		description string
		rType       reflect.Type
		timeLayout  string
		strict      bool
		trail       trail.Level
		value       interface{}
		expect      interface{}
		expectErr   string
	}{
		{
			description: "string passthrough",
			rType:       reflect.TypeOf(""),
			strict:      true,
			value:       "abc",
			expect:      "abc",
		},
		{
			description: "strict string rejects numbers",
			rType:       reflect.TypeOf(""),
			strict:      true,
			value:       1.0,
			expectErr:   "expected string, had float64",
		},
		{
			description: "lenient string formats numbers",
			rType:       reflect.TypeOf(""),
			value:       10.5,
			expect:      "10.5",
		},
		{
			description: "strict int accepts integral float",
			rType:       reflect.TypeOf(0),
			strict:      true,
			value:       3.0,
			expect:      3,
		},
		{
			description: "strict int rejects fractional float",
			rType:       reflect.TypeOf(0),
			strict:      true,
			value:       3.5,
			expectErr:   "expected integer, had fraction 3.5",
		},
		{
			description: "strict int rejects string",
			rType:       reflect.TypeOf(0),
			strict:      true,
			value:       "3",
			expectErr:   "expected integer, had string",
		},
		{
			description: "lenient int parses string",
			rType:       reflect.TypeOf(0),
			value:       "3",
			expect:      3,
		},
		{
			description: "int8 overflow",
			rType:       reflect.TypeOf(int8(0)),
			strict:      true,
			value:       300.0,
			expectErr:   "integer overflow for 300 as int8",
		},
		{
			description: "uint rejects negatives",
			rType:       reflect.TypeOf(uint(0)),
			strict:      true,
			value:       -1,
			expectErr:   "expected unsigned integer, had -1",
		},
		{
			description: "float from int",
			rType:       reflect.TypeOf(0.0),
			strict:      true,
			value:       2,
			expect:      2.0,
		},
		{
			description: "bool passthrough",
			rType:       reflect.TypeOf(false),
			strict:      true,
			value:       true,
			expect:      true,
		},
		{
			description: "lenient bool parses string",
			rType:       reflect.TypeOf(false),
			value:       "true",
			expect:      true,
		},
		{
			description: "interface keeps raw value",
			rType:       reflect.TypeOf((*interface{})(nil)).Elem(),
			strict:      true,
			value:       map[string]interface{}{"a": 1},
			expect:      map[string]interface{}{"a": 1},
		},
		{
			description: "time with default layout",
			rType:       reflect.TypeOf(time.Time{}),
			strict:      true,
			value:       "2026-08-30T10:00:00Z",
			expect:      time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		},
		{
			description: "time with custom layout",
			rType:       reflect.TypeOf(time.Time{}),
			timeLayout:  "2006-01-02",
			strict:      true,
			value:       "2026-08-30",
			expect:      time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			description: "time layout mismatch",
			rType:       reflect.TypeOf(time.Time{}),
			timeLayout:  "2006-01-02",
			strict:      true,
			value:       "30/08/2026",
			expectErr:   `expected time in layout "2006-01-02", had "30/08/2026"`,
		},
		{
			description: "pointer from value",
			rType:       reflect.TypeOf((*int)(nil)),
			strict:      true,
			value:       4,
			expect:      4,
		},
		{
			description: "pointer from nil",
			rType:       reflect.TypeOf((*int)(nil)),
			strict:      true,
			value:       nil,
			expect:      nil,
		},
		{
			description: "slice of ints",
			rType:       reflect.TypeOf([]int{}),
			strict:      true,
			value:       []interface{}{1, 2.0, 3},
			expect:      []int{1, 2, 3},
		},
		{
			description: "slice failure without trail stays raw",
			rType:       reflect.TypeOf([]int{}),
			strict:      true,
			value:       []interface{}{1, "x"},
			expectErr:   "expected integer, had string",
		},
		{
			description: "slice failure with first trail names the index",
			rType:       reflect.TypeOf([]int{}),
			strict:      true,
			trail:       trail.First,
			value:       []interface{}{1, "x"},
			expectErr:   "at [1]: expected integer, had string",
		},
		{
			description: "slice failures with all trail aggregate in order",
			rType:       reflect.TypeOf([]int{}),
			strict:      true,
			trail:       trail.All,
			value:       []interface{}{"x", 2, "y"},
			expectErr:   "2 load failure(s): at [0]: expected integer, had string; at [2]: expected integer, had string",
		},
		{
			description: "map of strings",
			rType:       reflect.TypeOf(map[string]string{}),
			strict:      true,
			value:       map[string]interface{}{"a": "x", "b": "y"},
			expect:      map[string]string{"a": "x", "b": "y"},
		},
		{
			description: "map failure with first trail names the key",
			rType:       reflect.TypeOf(map[string]string{}),
			strict:      true,
			trail:       trail.First,
			value:       map[string]interface{}{"a": 1},
			expectErr:   "at a: expected string, had int",
		},
	}

	mediator := provide.NewMediator(NewLoaderProvider())
	for _, testCase := range testCases {
		loader, err := provide.ProvideLoader(mediator, provide.FieldLoaderRequest{
			Type:       testCase.rType,
			TimeLayout: testCase.timeLayout,
			Settings:   provide.Settings{StrictCoercion: testCase.strict, Trail: testCase.trail},
		})
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		result, err := loader(testCase.value)
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
		if testCase.rType.Kind() == reflect.Ptr {
			if testCase.expect == nil {
				assert.EqualValues(t, reflect.Zero(testCase.rType).Interface(), result, testCase.description)
				continue
			}
			pointer, ok := result.(*int)
			if !assert.True(t, ok, testCase.description) {
				continue
			}
			assert.EqualValues(t, testCase.expect, *pointer, testCase.description)
			continue
		}
		assert.EqualValues(t, testCase.expect, result, testCase.description)
	}
}

func TestDumperProvider_Provide(t *testing.T) {
	four := 4
	var testCases = []struct {
		description string
		rType       reflect.Type
		timeLayout  string
		value       interface{}
		expect      interface{}
	}{
		{
			description: "string",
			rType:       reflect.TypeOf(""),
			value:       "abc",
			expect:      "abc",
		},
		{
			description: "int kinds collapse to int",
			rType:       reflect.TypeOf(int16(0)),
			value:       int16(3),
			expect:      3,
		},
		{
			description: "float",
			rType:       reflect.TypeOf(float32(0)),
			value:       float32(1.5),
			expect:      1.5,
		},
		{
			description: "time with layout",
			rType:       reflect.TypeOf(time.Time{}),
			timeLayout:  "2006-01-02",
			value:       time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
			expect:      "2026-08-30",
		},
		{
			description: "nil pointer",
			rType:       reflect.TypeOf((*int)(nil)),
			value:       (*int)(nil),
			expect:      nil,
		},
		{
			description: "pointer dereferences",
			rType:       reflect.TypeOf((*int)(nil)),
			value:       &four,
			expect:      4,
		},
		{
			description: "slice",
			rType:       reflect.TypeOf([]int{}),
			value:       []int{1, 2},
			expect:      []interface{}{1, 2},
		},
		{
			description: "map",
			rType:       reflect.TypeOf(map[string]bool{}),
			value:       map[string]bool{"a": true},
			expect:      map[string]interface{}{"a": true},
		},
	}

	mediator := provide.NewMediator(NewDumperProvider())
	for _, testCase := range testCases {
		dumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{
			Type:       testCase.rType,
			TimeLayout: testCase.timeLayout,
		})
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		result, err := dumper(testCase.value)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, result, testCase.description)
	}
}

func TestDumperProvider_64BitWidth(t *testing.T) {
	mediator := provide.NewMediator(NewDumperProvider())

	dumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{Type: reflect.TypeOf(int64(0))})
	if !assert.Nil(t, err) {
		return
	}
	result, err := dumper(int64(1) << 40)
	assert.Nil(t, err)
	assert.Equal(t, int64(1)<<40, result)

	dumper, err = provide.ProvideDumper(mediator, provide.FieldDumperRequest{Type: reflect.TypeOf(uint64(0))})
	if !assert.Nil(t, err) {
		return
	}
	result, err = dumper(uint64(1) << 41)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1)<<41, result)
}

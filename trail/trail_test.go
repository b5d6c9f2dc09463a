package trail

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_String(t *testing.T) {
	var testCases = []struct {
		description string
		path        Path
		expect      string
	}{
		{
			description: "empty path",
			path:        Path{},
			expect:      "",
		},
		{
			description: "single key",
			path:        Path{Key("name")},
			expect:      "name",
		},
		{
			description: "keys joined with dots",
			path:        Path{Key("author"), Key("name")},
			expect:      "author.name",
		},
		{
			description: "index attaches without a dot",
			path:        Path{Key("items"), Index(2), Key("id")},
			expect:      "items[2].id",
		},
		{
			description: "leading index",
			path:        Path{Index(0), Key("id")},
			expect:      "[0].id",
		},
	}

	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, testCase.path.String(), testCase.description)
	}
}

func TestAnnotate(t *testing.T) {
	var testCases = []struct {
		description string
		build       func() error
		expect      string
	}{
		{
			description: "segments prepend outermost first",
			build: func() error {
				var err error = NewError("expected int, had string")
				err = Annotate(err, Key("id"))
				err = Annotate(err, Index(1))
				err = Annotate(err, Key("items"))
				return err
			},
			expect: "at items[1].id: expected int, had string",
		},
		{
			description: "foreign error is wrapped before annotation",
			build: func() error {
				return Annotate(fmt.Errorf("boom"), Key("id"))
			},
			expect: "at id: boom",
		},
	}

	for _, testCase := range testCases {
		err := testCase.build()
		assert.EqualValues(t, testCase.expect, err.Error(), testCase.description)
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Annotate(cause, Key("id"))
	assert.True(t, errors.Is(err, cause))
}

func TestAggregate(t *testing.T) {
	var testCases = []struct {
		description string
		errs        []*LoadError
		expect      string
	}{
		{
			description: "single failure collapses to itself",
			errs: []*LoadError{
				Annotate(NewError("missing required value"), Key("a")),
			},
			expect: "at a: missing required value",
		},
		{
			description: "failures listed in supplied order",
			errs: []*LoadError{
				Annotate(NewError("missing required value"), Key("a")),
				Annotate(NewError("expected int, had string"), Key("b")),
			},
			expect: "2 load failure(s): at a: missing required value; at b: expected int, had string",
		},
		{
			description: "nested aggregate flattens with folded paths",
			errs: []*LoadError{
				Annotate(NewError("missing required value"), Key("a")),
				Annotate(
					Aggregate([]*LoadError{
						Annotate(NewError("expected int, had bool"), Index(0)),
						Annotate(NewError("expected int, had string"), Index(2)),
					}),
					Key("items")),
			},
			expect: "3 load failure(s): at a: missing required value; at items[0]: expected int, had bool; at items[2]: expected int, had string",
		},
	}

	for _, testCase := range testCases {
		err := Aggregate(testCase.errs)
		assert.EqualValues(t, testCase.expect, err.Error(), testCase.description)
	}
}

package codegen

import "github.com/viant/morph/trail"

type child struct {
	segment trail.Segment
	run     ExtractStep
}

// runChildren executes container children honoring the debug trail level:
// Disabled returns the first failure unannotated, First annotates the first
// failure and stops, All evaluates every child and aggregates all annotated
// failures in declaration order.
func runChildren(level trail.Level, data interface{}, frame *Frame, children []child) error {
	switch level {
	case trail.Disabled:
		for i := range children {
			if err := children[i].run(data, frame); err != nil {
				return err
			}
		}
	case trail.First:
		for i := range children {
			if err := children[i].run(data, frame); err != nil {
				return trail.Annotate(err, children[i].segment)
			}
		}
	default:
		var failures []*trail.LoadError
		for i := range children {
			if err := children[i].run(data, frame); err != nil {
				failures = append(failures, trail.Annotate(err, children[i].segment))
			}
		}
		if len(failures) > 0 {
			return trail.Aggregate(failures)
		}
	}
	return nil
}

package shape

import (
	"reflect"
	"strings"

	"github.com/viant/morph/tags"
	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

type formatTag struct {
	name       string
	caseFormat string
	timeLayout string
}

func parseFormatTag(tag reflect.StructTag) formatTag {
	ret := formatTag{}
	literal, ok := tag.Lookup("format")
	if !ok {
		return ret
	}
	for _, pair := range tags.Pairs(literal) {
		switch strings.ToLower(pair.Key) {
		case "name":
			ret.name = pair.Value
		case "caseformat":
			ret.caseFormat = pair.Value
		case "timelayout":
			ret.timeLayout = pair.Value
		case "dateformat":
			if ret.timeLayout == "" {
				ret.timeLayout = ftime.DateFormatToTimeLayout(pair.Value)
			}
		}
	}
	return ret
}

// externalName resolves the wire name a format tag implies, or "" when the tag
// carries no naming information.
func (f formatTag) externalName(fieldName string) string {
	if f.name == "" && f.caseFormat == "" {
		return ""
	}
	aTag := &format.Tag{Name: f.name, CaseFormat: f.caseFormat}
	if aTag.Name == "" {
		aTag.Name = fieldName
	}
	return aTag.CaseFormatName("")
}

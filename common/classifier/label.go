package classifier

import (
	"fmt"
	"strings"
)

// Label is a predicted or annotated sentiment class
type Label string

const (
	Negative Label = "negative"
	Positive Label = "positive"
)

// Labels is the fixed class set in model column order
var Labels = []Label{Negative, Positive}

func (l Label) String() string {
	return string(l)
}

// IsValid reports whether l is one of the known classes
func (l Label) IsValid() bool {
	switch l {
	case Negative, Positive:
		return true
	default:
		return false
	}
}

// ParseLabel maps a raw corpus value to a Label, ignoring case and surrounding spaces
func ParseLabel(value string) (Label, error) {
	label := Label(strings.ToLower(strings.TrimSpace(value)))
	if !label.IsValid() {
		return "", fmt.Errorf("invalid label %q (supported: %v)", value, Labels)
	}
	return label, nil
}

func labelIndex(label Label) int {
	for i, l := range Labels {
		if l == label {
			return i
		}
	}
	return -1
}

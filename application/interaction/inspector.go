package interaction

import (
	"bdd_automation/domain/entities"
	"context"
	"fmt"
)

// InspectOutcome is the result of one inspection. Element is meaningful only when Found.
type InspectOutcome struct {
	Found   bool                       `json:"found"`
	Element entities.ElementDescriptor `json:"element"`
	Message string                     `json:"message,omitempty"`
}

// Inspector produces fresh element descriptors. It holds no state: every call
// reflects the page at that moment.
type Inspector struct{}

// Inspect - describes the first element matching selector.
// A missing element is reported as Found=false, never as an error.
func (Inspector) Inspect(ctx context.Context, s *Session, selector string) (InspectOutcome, error) {
	if err := s.check(); err != nil {
		return InspectOutcome{}, err
	}
	res, err := s.Primitives().InspectDetailed(ctx, selector)
	if err != nil {
		return InspectOutcome{}, err
	}
	if !res.Success || !res.Found || res.Element == nil {
		msg := fmt.Sprintf("%v: no element matches %s", entities.ErrNotFound, selector)
		if !res.Success && res.Message != "" {
			msg += " (" + res.Message + ")"
		}
		return InspectOutcome{Found: false, Message: msg}, nil
	}

	element := *res.Element
	attrs := make(map[string]string, len(element.Attributes))
	for k, v := range element.Attributes {
		attrs[k] = v
	}
	element.Attributes = attrs
	element.Normalize()

	return InspectOutcome{Found: true, Element: element}, nil
}

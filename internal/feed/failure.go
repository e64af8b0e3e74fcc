package feed

import "fmt"

// ValidationFailure is returned when a feed cannot be validated at all; the
// embedded event describes why.
type ValidationFailure struct {
	Event Event
	Cause error
}

func (f *ValidationFailure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("validation failure: %s: %v", f.Event.Message(), f.Cause)
	}
	return fmt.Sprintf("validation failure: %s", f.Event.Message())
}

func (f *ValidationFailure) Unwrap() error {
	return f.Cause
}

func failure(typ, value string, cause error) *ValidationFailure {
	return &ValidationFailure{
		Event: Event{Type: typ, Level: Error, Value: value, Count: 1},
		Cause: cause,
	}
}

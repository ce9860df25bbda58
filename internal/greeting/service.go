// Package greeting turns a name into a greeting message.
package greeting

import "fmt"

// Prefix is prepended to every greeted name
const Prefix = "hello "

// Kind classifies greeting errors
type Kind string

// InvalidInput is reported when the supplied name fails validation
const InvalidInput Kind = "invalid_input"

// Error is a greeting failure carrying its kind and a user-facing message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is a greeting error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ErrInvalidInput matches any InvalidInput error via errors.Is
var ErrInvalidInput = &Error{Kind: InvalidInput, Message: "Name cannot be empty"}

// Request is the input of a greeting
type Request struct {
	Name string `json:"name"`
}

// Result is the output of a greeting
type Result struct {
	Message string `json:"message"`
}

// Service formats greetings. It holds no state and is safe for concurrent use.
type Service struct{}

// NewService creates a new greeting service
func NewService() *Service {
	return &Service{}
}

// Greet returns "hello " followed by name, unmodified.
// Only the empty string is rejected; whitespace is kept as given.
func (s *Service) Greet(name string) (string, error) {
	if name == "" {
		return "", &Error{Kind: InvalidInput, Message: ErrInvalidInput.Message}
	}
	return Prefix + name, nil
}

// Handle runs Greet for a Request and wraps the message in a Result
func (s *Service) Handle(req Request) (Result, error) {
	msg, err := s.Greet(req.Name)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: msg}, nil
}

package faults

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

// Safe messages shown to callers.
const (
	MsgNotFound    = "Bug not found"
	MsgInternal    = "Internal Server Error"
	MsgDuplicate   = "Bug already exists"
	MsgConstraint  = "Bug data violates storage constraints"
	MsgUnreachable = "Service unreachable: check that the host is reachable and the port is not blocked, and that the server and its store are running"
	MsgRender      = "Something went wrong while displaying this view"
)

// Envelope is the normalized, caller-safe form of a failure.
// Message never contains raw store text; the cause is kept for Detail.
type Envelope struct {
	Kind      Kind
	Message   string
	Messages  []string
	Retryable bool
	Context   map[string]any

	cause error
	stack string
}

func (e *Envelope) Error() string { return e.Message }

func (e *Envelope) Unwrap() error { return e.cause }

// Detail returns the raw cause text, for diagnostic builds only.
func (e *Envelope) Detail() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

// Stack returns the captured stack trace of a recovered panic, if any.
func (e *Envelope) Stack() string { return e.stack }

// WithContext returns e with key set in its context map.
func (e *Envelope) WithContext(key string, value any) *Envelope {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New classifies err and builds its envelope. An error that already is
// an envelope is returned unchanged, so conversion happens once.
func New(err error) *Envelope {
	if err == nil {
		return nil
	}
	var env *Envelope
	if errors.As(err, &env) {
		return env
	}

	kind := Classify(err)
	env = &Envelope{Kind: kind, Retryable: kind.Retryable(), cause: err}

	switch kind {
	case KindValidation:
		env.Messages = validationMessages(err)
		env.Message = strings.Join(env.Messages, ", ")
	case KindNotFound:
		env.Message = MsgNotFound
	default:
		env.Message = MsgInternal
	}
	return env
}

// Remote rebuilds an envelope received over the wire. An unknown kind is
// derived from the response status.
func Remote(kind string, message string, status int) *Envelope {
	k := Kind(kind)
	if !k.IsValid() {
		k = KindForStatus(status)
	}
	if message == "" {
		message = defaultMessage(k)
	}
	return &Envelope{
		Kind:      k,
		Message:   message,
		Retryable: k.Retryable(),
		cause:     fmt.Errorf("remote %d: %s", status, message),
	}
}

// Unreachable wraps a transport failure of a remote call.
func Unreachable(err error) *Envelope {
	return &Envelope{
		Kind:      KindNetwork,
		Message:   MsgUnreachable,
		Retryable: true,
		cause:     err,
	}
}

// Render builds the envelope of a recovered rendering panic.
func Render(panicValue any, stack []byte) *Envelope {
	cause, ok := panicValue.(error)
	if !ok {
		cause = fmt.Errorf("%v", panicValue)
	}
	return &Envelope{
		Kind:      KindRender,
		Message:   MsgRender,
		Retryable: true,
		cause:     fmt.Errorf("render panic: %w", cause),
		stack:     string(stack),
	}
}

// Panic builds the envelope of a recovered request handler panic.
func Panic(panicValue any, stack []byte) *Envelope {
	return &Envelope{
		Kind:      KindStorage,
		Message:   MsgInternal,
		Retryable: true,
		cause:     fmt.Errorf("panic: %v", panicValue),
		stack:     string(stack),
	}
}

func defaultMessage(k Kind) string {
	switch k {
	case KindNotFound:
		return MsgNotFound
	case KindNetwork:
		return MsgUnreachable
	case KindRender:
		return MsgRender
	case KindValidation:
		return "Validation failed"
	}
	return MsgInternal
}

func validationMessages(err error) []string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Messages()
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		msgs := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			msgs = append(msgs, constraintMessage(fe))
		}
		return msgs
	}

	if errors.Is(err, domain.ErrAlreadyExists) {
		return []string{MsgDuplicate}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return []string{MsgDuplicate}
	}
	return []string{MsgConstraint}
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fe.Field() + " is invalid"
}

package faults

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

func TestNew_Nil(t *testing.T) {
	t.Parallel()

	if env := New(nil); env != nil {
		t.Fatalf("New(nil) = %v, want nil", env)
	}
}

func TestNew_ValidationJoinsMessages(t *testing.T) {
	t.Parallel()

	env := New(domain.NewValidationErrors([]domain.FieldError{
		{Field: "title", Message: "Title is required"},
		{Field: "reporter", Message: "Reporter is required"},
	}))

	if env.Kind != KindValidation {
		t.Fatalf("Kind = %s, want validation", env.Kind)
	}
	if env.Message != "Title is required, Reporter is required" {
		t.Errorf("Message = %q", env.Message)
	}
	if len(env.Messages) != 2 {
		t.Errorf("Messages = %v", env.Messages)
	}
	if env.Retryable {
		t.Error("validation must not be retryable")
	}
}

func TestNew_ValidatorConstraintMessages(t *testing.T) {
	t.Parallel()

	type doc struct {
		Title  string `validate:"required,max=3"`
		Status string `validate:"oneof=open in-progress resolved"`
	}
	err := validator.New().Struct(doc{Title: "toolong", Status: "closed"})
	env := New(fmt.Errorf("bug: %w", err))

	want := []string{
		"Title cannot exceed 3 characters",
		"Status must be one of: open, in-progress, resolved",
	}
	if len(env.Messages) != len(want) {
		t.Fatalf("Messages = %v, want %v", env.Messages, want)
	}
	for i := range want {
		if env.Messages[i] != want[i] {
			t.Errorf("Messages[%d] = %q, want %q", i, env.Messages[i], want[i])
		}
	}
}

func TestNew_NeverLeaksStoreText(t *testing.T) {
	t.Parallel()

	raw := &pgconn.PgError{Code: "XX000", Message: "relation bugs_secret does not exist"}
	env := New(fmt.Errorf("bug list: %w", raw))

	if env.Kind != KindStorage {
		t.Fatalf("Kind = %s, want storageFault", env.Kind)
	}
	if env.Message != MsgInternal {
		t.Errorf("Message = %q, want %q", env.Message, MsgInternal)
	}
	if !strings.Contains(env.Detail(), "bugs_secret") {
		t.Errorf("Detail should carry the cause, got %q", env.Detail())
	}
	if !errors.As(env, &raw) {
		t.Error("envelope should unwrap to the cause")
	}
}

func TestNew_Idempotent(t *testing.T) {
	t.Parallel()

	first := New(domain.ErrNotFound)
	second := New(fmt.Errorf("again: %w", first))
	if first != second {
		t.Fatal("converting an envelope twice must return the same envelope")
	}
	if first.Message != MsgNotFound {
		t.Errorf("Message = %q", first.Message)
	}
}

func TestNew_Duplicate(t *testing.T) {
	t.Parallel()

	env := New(&pgconn.PgError{Code: "23505"})
	if env.Kind != KindValidation || env.Message != MsgDuplicate {
		t.Errorf("got %s %q", env.Kind, env.Message)
	}
}

func TestNew_StoreConnectionFaultsAreStorage(t *testing.T) {
	t.Parallel()

	errs := []error{
		fmt.Errorf("bug list: %w", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}),
		fmt.Errorf("postgres: ping: %w", &pgconn.ConnectError{}),
		fmt.Errorf("bug get: %w", context.DeadlineExceeded),
	}
	for _, err := range errs {
		env := New(err)
		if env.Kind != KindStorage || env.Kind.HTTPStatus() != 500 {
			t.Errorf("New(%v): kind %s status %d, want storageFault 500", err, env.Kind, env.Kind.HTTPStatus())
		}
		if env.Message != MsgInternal {
			t.Errorf("New(%v): message %q, want %q", err, env.Message, MsgInternal)
		}
	}
}

func TestRemote(t *testing.T) {
	t.Parallel()

	env := Remote("notFound", "Bug not found", 404)
	if env.Kind != KindNotFound || env.Message != "Bug not found" {
		t.Errorf("got %s %q", env.Kind, env.Message)
	}

	env = Remote("", "", 503)
	if env.Kind != KindNetwork || env.Message != MsgUnreachable || !env.Retryable {
		t.Errorf("status fallback: got %+v", env)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	env := Render("nil map write", []byte("goroutine 1 [running]"))
	if env.Kind != KindRender {
		t.Fatalf("Kind = %s", env.Kind)
	}
	if !strings.Contains(env.Detail(), "nil map write") {
		t.Errorf("Detail = %q", env.Detail())
	}
	if env.Stack() == "" {
		t.Error("Stack should be kept")
	}

	cause := errors.New("boom")
	if env := Render(cause, nil); !errors.Is(env, cause) {
		t.Error("error panic values should stay in the chain")
	}
}

package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesChain(t *testing.T) {
	base := errors.New("boom")
	err := Wrapf(Wrap(base, "query job orders"), "list page %d", 2)
	if !errors.Is(err, base) {
		t.Fatalf("errors.Is() = false for %v", err)
	}
	if err.Error() != "list page 2: query job orders: boom" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if Wrap(nil, "x") != nil || Wrapf(nil, "x %d", 1) != nil {
		t.Fatalf("wrapping nil must stay nil")
	}
}

func TestInvalidIsClassified(t *testing.T) {
	err := fmt.Errorf("parse filter: %w", Invalid("created_from", "unparseable date %q", "yesterday"))
	if !IsInvalid(err) {
		t.Fatalf("IsInvalid() = false for %v", err)
	}

	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "created_from" {
		t.Fatalf("FieldError = %#v", fe)
	}
	if IsInvalid(errors.New("db down")) {
		t.Fatalf("IsInvalid() = true for unrelated error")
	}
}

func TestWithStackCapturesOnce(t *testing.T) {
	err := WithStack(errors.New("root"))
	again := WithStack(Wrap(err, "outer"))

	var se *StackError
	if !errors.As(again, &se) {
		t.Fatalf("stack error missing")
	}
	if len(se.Stack()) == 0 {
		t.Fatalf("stack is empty")
	}
	if got := ErrorChainStrings(again); len(got) != 3 {
		t.Fatalf("ErrorChainStrings() = %#v", got)
	}
}

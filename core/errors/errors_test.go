package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "file", ID: "schema.surql"},
			wantMsg:  "file not found: schema.surql",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "route"},
			wantMsg:  "route not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "file", ID: "test.surql", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with field",
			err:      &ValidationError{Field: "query", Message: "must not be empty"},
			wantMsg:  "validation failed for query: must not be empty",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "without field",
			err:      &ValidationError{Message: "body too large"},
			wantMsg:  "validation failed: body too large",
			wantBase: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestIOError(t *testing.T) {
	baseErr := fmt.Errorf("permission denied")
	tests := []struct {
		name    string
		err     *IOError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     &IOError{Operation: "read", Path: "/test/query.surql", Err: baseErr},
			wantMsg: "failed to read /test/query.surql: permission denied",
		},
		{
			name:    "without path",
			err:     &IOError{Operation: "decompress", Err: baseErr},
			wantMsg: "failed to decompress: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, baseErr) {
				t.Errorf("Unwrap() = %v, want %v", got, baseErr)
			}
		})
	}
}

func TestSourceError(t *testing.T) {
	parseErr := fmt.Errorf("Unexpected token 'FROM' expected a value")
	tests := []struct {
		name    string
		err     *SourceError
		wantMsg string
	}{
		{
			name:    "with location",
			err:     NewSource("query.surql", 3, 8, "", parseErr),
			wantMsg: "query.surql:3:8: Unexpected token 'FROM' expected a value",
		},
		{
			name:    "without location",
			err:     NewSource("<stdin>", 0, 0, "", parseErr),
			wantMsg: "<stdin>: Unexpected token 'FROM' expected a value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, parseErr) {
				t.Errorf("SourceError does not unwrap to the parse error")
			}
		})
	}

	t.Run("without underlying error", func(t *testing.T) {
		err := &SourceError{Source: "x"}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Unwrap() = %v, want ErrInvalidInput", err.Unwrap())
		}
	})
}

func TestUnsupportedError(t *testing.T) {
	tests := []struct {
		name     string
		err      *UnsupportedError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with reason",
			err:      &UnsupportedError{Feature: "compression format", Reason: "only xz is read"},
			wantMsg:  "unsupported compression format: only xz is read",
			wantBase: ErrUnsupported,
		},
		{
			name:     "without reason",
			err:      &UnsupportedError{Feature: "statement"},
			wantMsg:  "unsupported statement",
			wantBase: ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestHelperFunctions(t *testing.T) {
	t.Run("NewNotFound", func(t *testing.T) {
		err := NewNotFound("file", "a.surql")
		if err.Resource != "file" || err.ID != "a.surql" {
			t.Errorf("NewNotFound() = %+v, want Resource=file, ID=a.surql", err)
		}
	})

	t.Run("NewValidation", func(t *testing.T) {
		err := NewValidation("query", "must not be empty")
		if err.Field != "query" || err.Message != "must not be empty" {
			t.Errorf("NewValidation() = %+v, unexpected values", err)
		}
	})

	t.Run("NewIO", func(t *testing.T) {
		baseErr := fmt.Errorf("disk full")
		err := NewIO("write", "/tmp/test", baseErr)
		if err.Operation != "write" || err.Path != "/tmp/test" || err.Err != baseErr {
			t.Errorf("NewIO() = %+v, unexpected values", err)
		}
	})

	t.Run("NewUnsupported", func(t *testing.T) {
		err := NewUnsupported("codec", "not compiled in")
		if err.Feature != "codec" || err.Reason != "not compiled in" {
			t.Errorf("NewUnsupported() = %+v, unexpected values", err)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrap(baseErr, "context message")
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrap() error does not unwrap to base error")
		}
		if wrapped.Error() != "context message: base error" {
			t.Errorf("Wrap() = %q", wrapped.Error())
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	wrapped := Wrapf(baseErr, "failed to process %s", "file.surql")
	if !errors.Is(wrapped, baseErr) {
		t.Errorf("Wrapf() error does not unwrap to base error")
	}
	if want := "failed to process file.surql: base error"; wrapped.Error() != want {
		t.Errorf("Wrapf() = %q, want %q", wrapped.Error(), want)
	}
	if got := Wrapf(nil, "context %s", "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

func TestIsAndAs(t *testing.T) {
	err := Wrap(&NotFoundError{Resource: "file", ID: "123"}, "open")
	if !Is(err, ErrNotFound) {
		t.Error("Is() failed to match NotFoundError to ErrNotFound")
	}
	var nfErr *NotFoundError
	if !As(err, &nfErr) {
		t.Fatal("As() failed to match NotFoundError")
	}
	if nfErr.ID != "123" {
		t.Errorf("As() nfErr.ID = %q, want %q", nfErr.ID, "123")
	}
}

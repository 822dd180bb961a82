package mergeerrors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestConfigNotFoundError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ConfigNotFoundError{Path: "base.yaml", Cause: os.ErrNotExist}
		if err.Error() != "config not found: base.yaml: file does not exist" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message minimal", func(t *testing.T) {
		err := &ConfigNotFoundError{}
		if err.Error() != "config not found" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfigNotFound", func(t *testing.T) {
		err := &ConfigNotFoundError{Path: "base.yaml"}
		if !errors.Is(err, ErrConfigNotFound) {
			t.Error("ConfigNotFoundError should match ErrConfigNotFound")
		}
		if errors.Is(err, ErrParse) {
			t.Error("ConfigNotFoundError should not match ErrParse")
		}
	})

	t.Run("Cause is reachable through the chain", func(t *testing.T) {
		err := fmt.Errorf("discovery: %w", &ConfigNotFoundError{Path: "base.yaml", Cause: os.ErrNotExist})
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("wrapped ConfigNotFoundError should expose os.ErrNotExist")
		}
		var target *ConfigNotFoundError
		if !errors.As(err, &target) {
			t.Fatal("errors.As should extract ConfigNotFoundError")
		}
		if target.Path != "base.yaml" {
			t.Errorf("expected Path base.yaml, got %s", target.Path)
		}
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/routes.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/routes.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with line only", func(t *testing.T) {
		err := &ParseError{Line: 10}
		if err.Error() != "parse error at line 10" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		if !errors.Is(err, ErrParse) {
			t.Error("ParseError should match ErrParse")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("ParseError should not match ErrConfigNotFound")
		}
	})
}

func TestBaseError(t *testing.T) {
	err := &BaseError{Path: "static_resources", Message: "missing"}
	if err.Error() != "invalid base document at static_resources: missing" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrBase) {
		t.Error("BaseError should match ErrBase")
	}
	if errors.Is(err, ErrInvalidFragment) {
		t.Error("BaseError should not match ErrInvalidFragment")
	}
}

func TestFragmentError(t *testing.T) {
	t.Run("Error message with service", func(t *testing.T) {
		err := &FragmentError{Service: "svc/users", Index: 2, Message: "fragment is nil"}
		if err.Error() != "invalid fragment 2 (svc/users): fragment is nil" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message without service", func(t *testing.T) {
		err := &FragmentError{Index: 0}
		if err.Error() != "invalid fragment 0" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrInvalidFragment", func(t *testing.T) {
		if !errors.Is(&FragmentError{}, ErrInvalidFragment) {
			t.Error("FragmentError should match ErrInvalidFragment")
		}
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ConfigError{
			Option:  "folder-name",
			Value:   "",
			Message: "must not be empty",
			Cause:   errors.New("root"),
		}
		if err.Error() != "configuration error for folder-name (value: ): must not be empty: root" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfig", func(t *testing.T) {
		if !errors.Is(&ConfigError{}, ErrConfig) {
			t.Error("ConfigError should match ErrConfig")
		}
	})
}

func TestOutputError(t *testing.T) {
	cause := errors.New("disk full")
	err := &OutputError{Path: "out.yaml", Cause: cause}
	if err.Error() != "output error for out.yaml: disk full" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrOutput) {
		t.Error("OutputError should match ErrOutput")
	}
	if !errors.Is(err, cause) {
		t.Error("OutputError should unwrap to its cause")
	}
}

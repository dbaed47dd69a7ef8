package engine_test

import (
	"errors"
	"testing"

	"i4.energy/across/atcmd/engine"
)

func TestConfig(t *testing.T) {
	t.Run("ErrNoTransport when no transport provided", func(t *testing.T) {
		_, err := engine.NewConfigBuilder().Build()

		if err != engine.ErrNoTransport {
			t.Errorf("expected ErrNoTransport, got: %v", err)
		}
	})

	t.Run("ErrInvalidBufferSize on negative size", func(t *testing.T) {
		_, err := engine.NewConfigBuilder().
			WithTransport(engine.NewBufferTransport()).
			WithBufferSize(-1).
			Build()

		if !errors.Is(err, engine.ErrInvalidBufferSize) {
			t.Errorf("expected ErrInvalidBufferSize, got: %v", err)
		}
	})

	t.Run("Defaults applied", func(t *testing.T) {
		config, err := engine.NewConfigBuilder().
			WithTransport(engine.NewBufferTransport()).
			Build()
		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}

		e, err := engine.New(config)
		if err != nil {
			t.Fatalf("unexpected error from New(): %v", err)
		}
		if e == nil {
			t.Fatal("New() should return a valid engine")
		}
	})

	t.Run("ErrNoTransport from New with zero config", func(t *testing.T) {
		e, err := engine.New(engine.Config{})
		if !errors.Is(err, engine.ErrNoTransport) {
			t.Errorf("expected ErrNoTransport from New(), got: %v", err)
		}
		if e != nil {
			t.Error("New() should return nil engine when no transport provided")
		}
	})
}

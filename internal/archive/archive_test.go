package archive

import (
	"context"
	"testing"
)

func TestPackSuccess(t *testing.T) {
	var gotName string
	var gotArgs []string
	var gotDir string
	c := &Codec{Runner: func(ctx context.Context, name string, args []string, dir string) (int, error) {
		gotName, gotArgs, gotDir = name, args, dir
		return 0, nil
	}}
	if err := c.Pack(context.Background(), "/staging", "/backups/a.7z"); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if gotName != "7z" {
		t.Errorf("name = %q, want 7z", gotName)
	}
	if gotDir != "/staging" {
		t.Errorf("dir = %q, want /staging", gotDir)
	}
	if len(gotArgs) == 0 || gotArgs[0] != "a" {
		t.Errorf("args = %v, want to start with 'a'", gotArgs)
	}
}

func TestPackNonZeroExit(t *testing.T) {
	c := &Codec{Runner: func(ctx context.Context, name string, args []string, dir string) (int, error) {
		return 2, nil
	}}
	err := c.Pack(context.Background(), "/staging", "/backups/a.7z")
	var codecErr *ErrCodecFailed
	if err == nil {
		t.Fatalf("expected error")
	}
	if e, ok := err.(*ErrCodecFailed); ok {
		codecErr = e
	} else {
		t.Fatalf("expected *ErrCodecFailed, got %T", err)
	}
	if codecErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", codecErr.ExitCode)
	}
}

func TestUnpackSuccess(t *testing.T) {
	called := false
	c := &Codec{Runner: func(ctx context.Context, name string, args []string, dir string) (int, error) {
		called = true
		return 0, nil
	}}
	if err := c.Unpack(context.Background(), "/backups/a.7z", "/staging"); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !called {
		t.Errorf("runner not invoked")
	}
}

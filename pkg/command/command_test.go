package command

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestOSRunnerStdin(t *testing.T) {
	out, err := NewRunner().Run(context.Background(), t.TempDir(), strings.NewReader("const a = 1\n"), "cat")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
	if string(out.Stdout) != "const a = 1\n" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
}

func TestOSRunnerExitCode(t *testing.T) {
	out, err := NewRunner().Run(context.Background(), t.TempDir(), nil, "sh", "-c", "echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if strings.TrimSpace(string(out.Stderr)) != "oops" {
		t.Errorf("Stderr = %q", out.Stderr)
	}
}

func TestOSRunnerMissingBinary(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), t.TempDir(), nil, "precommit-no-such-binary")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestOSRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner().Run(ctx, t.TempDir(), nil, "sleep", "5"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestSplit(t *testing.T) {
	name, args, err := Split([]string{"npx", "--no-install", "eslint"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "npx" || len(args) != 2 || args[1] != "eslint" {
		t.Errorf("Split = %q %q", name, args)
	}

	if _, _, err := Split(nil); err == nil {
		t.Error("Split(nil) should fail")
	}
	if _, _, err := Split([]string{""}); err == nil {
		t.Error("Split([\"\"]) should fail")
	}
}

func TestRunnerFunc(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := RunnerFunc(func(_ context.Context, _ string, _ io.Reader, name string, args ...string) (*Output, error) {
		gotName, gotArgs = name, args
		return &Output{ExitCode: 1}, nil
	})

	out, err := r.Run(context.Background(), ".", nil, "eslint", "--format", "json")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", out.ExitCode)
	}
	if gotName != "eslint" || len(gotArgs) != 2 {
		t.Errorf("got %s %v", gotName, gotArgs)
	}
}

package logging

import (
	"context"
	"testing"
)

func TestWithSource(t *testing.T) {
	ctx := WithSource(context.Background(), "script.kv")

	if got := GetSource(ctx); got != "script.kv" {
		t.Errorf("GetSource() = %q, want %q", got, "script.kv")
	}
}

func TestWithLine(t *testing.T) {
	ctx := WithLine(context.Background(), 12)

	if got := GetLine(ctx); got != 12 {
		t.Errorf("GetLine() = %d, want %d", got, 12)
	}
}

func TestGetSource_NotPresent(t *testing.T) {
	if got := GetSource(context.Background()); got != "" {
		t.Errorf("GetSource() = %q, want empty string", got)
	}
}

func TestGetLine_NotPresent(t *testing.T) {
	if got := GetLine(context.Background()); got != 0 {
		t.Errorf("GetLine() = %d, want 0", got)
	}
}

func TestWithLine_Overwrite(t *testing.T) {
	ctx := WithLine(context.Background(), 1)
	ctx = WithLine(ctx, 2)

	if got := GetLine(ctx); got != 2 {
		t.Errorf("GetLine() = %d, want %d", got, 2)
	}
}

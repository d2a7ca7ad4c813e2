package title

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/llm"
)

type fakeGen struct {
	out string
	err error

	gotReq llm.Request
}

func (f *fakeGen) Generate(_ context.Context, req llm.Request) (string, error) {
	f.gotReq = req
	return f.out, f.err
}

func TestDelegated_Success(t *testing.T) {
	gen := &fakeGen{out: `"Go Garbage Collection"`}
	d := NewDelegated(gen)

	got, err := d.Title(context.Background(), "how does the go garbage collector work")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if got != "Go Garbage Collection" {
		t.Errorf("title = %q, want quotes stripped", got)
	}
	if !strings.Contains(gen.gotReq.Prompt, "how does the go garbage collector work") {
		t.Errorf("prompt = %q, want it to carry the query", gen.gotReq.Prompt)
	}
}

func TestDelegated_GenerateError(t *testing.T) {
	d := NewDelegated(&fakeGen{err: errors.New("boom")})
	if _, err := d.Title(context.Background(), "anything"); err == nil {
		t.Fatal("want error from failed generation")
	}
}

func TestDelegated_EmptyCompletion(t *testing.T) {
	d := NewDelegated(&fakeGen{out: "  "})
	if _, err := d.Title(context.Background(), "anything"); err == nil {
		t.Fatal("want error from empty completion")
	}
}

func TestDelegated_LongTitleTruncated(t *testing.T) {
	d := NewDelegated(&fakeGen{out: strings.Repeat("x", 80)})
	got, err := d.Title(context.Background(), "q")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if len(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("title = %q (len %d), want 50 chars with ellipsis", got, len(got))
	}
}

func TestFallback(t *testing.T) {
	long := strings.Repeat("q", 60)
	got := Fallback(long)
	if got != strings.Repeat("q", 47)+"..." {
		t.Errorf("Fallback = %q, want first 47 chars plus ellipsis", got)
	}
	if got := Fallback("short query"); got != "short query" {
		t.Errorf("Fallback(short) = %q", got)
	}
}

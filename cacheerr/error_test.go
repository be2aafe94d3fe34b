package cacheerr

import (
	"errors"
	"testing"
)

func TestIs(t *testing.T) {
	err := New(Send)
	if !Is(err, Send) {
		t.Fatalf("Is(New(Send), Send) = false; want true")
	}
	if Is(err, Receive) {
		t.Fatalf("Is(New(Send), Receive) = true; want false")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("channel closed")
	err := Wrap(Receive, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(Wrap(Receive, cause), cause) = false; want true")
	}
	if err.Error() == "" {
		t.Fatalf("Error() returned empty string")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		InconsistentLen: "inconsistent_len",
		Send:            "send",
		Receive:         "receive",
		NodeNotExists:   "node_not_exists",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q; want %q", k, got, want)
		}
	}
}

package state

import (
	"errors"
	"fmt"
	"testing"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		hasID bool
		want  ErrorKind
	}{
		{"404 with id", statusErr(404), true, KindNotFoundKnownID},
		{"404 without id", statusErr(404), false, KindNotFoundUnknownID},
		{"401", statusErr(401), true, KindForbidden},
		{"403", statusErr(403), false, KindForbidden},
		{"400", statusErr(400), true, KindMalformed},
		{"422", statusErr(422), true, KindMalformed},
		{"500", statusErr(500), true, KindUnknown},
		{"transport", errors.New("connection refused"), true, KindUnknown},
		{"wrapped 404", fmt.Errorf("get product: %w", statusErr(404)), true, KindNotFoundKnownID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := Classify(tt.err, 9, tt.hasID)
			if rej.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v", rej.Kind, tt.want)
			}
			if rej.HasID != tt.hasID {
				t.Fatalf("HasID = %v, want %v", rej.HasID, tt.hasID)
			}
			if !errors.Is(rej, tt.err) {
				t.Fatalf("Rejection does not unwrap to %v", tt.err)
			}
		})
	}
}

func TestRejectionKnownMissing(t *testing.T) {
	rej := Classify(statusErr(404), 3, true)
	if !rej.knownMissing(3) {
		t.Fatal("knownMissing(3) = false, want true")
	}
	if rej.knownMissing(4) {
		t.Fatal("knownMissing(4) = true for a different id")
	}
	var nilRej *Rejection
	if nilRej.knownMissing(3) {
		t.Fatal("nil rejection reported known missing")
	}
	if got := rej.Error(); got != "not-found-known-id (id 3): status 404" {
		t.Fatalf("Error() = %q", got)
	}
}

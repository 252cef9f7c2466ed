package utils

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/maksimkurb/fibctl/src/internal/log"
)

type fakeCloser struct {
	err error
}

func (f fakeCloser) Close() error {
	return f.err
}

func TestCloseOrWarn(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantWarn bool
	}{
		{name: "success", err: nil},
		{name: "already closed", err: fmt.Errorf("close tcp: %w", net.ErrClosed)},
		{name: "failure", err: errors.New("broken pipe"), wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			restore := log.SetOutput(&out, &errOut)
			defer restore()

			CloseOrWarn(fakeCloser{err: tt.err}, "test connection")

			warned := strings.Contains(out.String(), "Failed to close test connection")
			if warned != tt.wantWarn {
				t.Errorf("Expected warning=%v, got output %q", tt.wantWarn, out.String())
			}
		})
	}
}

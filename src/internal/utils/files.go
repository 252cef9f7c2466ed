package utils

import (
	"errors"
	"io"
	"net"
	"os"

	"github.com/maksimkurb/fibctl/src/internal/log"
)

// CloseOrWarn closes c and logs a warning on failure. Closing something
// that is already closed, such as a connection torn down by a cancelled
// context, is not reported.
func CloseOrWarn(c io.Closer, what string) {
	if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrClosed) {
		log.Warnf("Failed to close %s: %v", what, err)
	}
}

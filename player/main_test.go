package player

import (
	"io"
	"os"
	"testing"

	"github.com/Strum355/log"
)

// The Strum355/log package panics on use until one of its Init functions has
// run; production does this in main, so the tests must do it themselves.
func TestMain(m *testing.M) {
	log.InitSimpleLogger(&log.Config{Output: io.Discard})
	os.Exit(m.Run())
}

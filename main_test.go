package memocache_test

import (
	"testing"

	"go.uber.org/goleak"
)

// Background sweep and analysis goroutines must stop when their cache
// is closed; any straggler is a leak.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

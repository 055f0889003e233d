package worklist

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches blocked producers or consumers leaked by worklist operations.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

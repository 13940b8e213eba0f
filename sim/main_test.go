package sim

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination "mock_variate_test.go" -package $GOPACKAGE -write_package_comment=false github.com/inference-sim/plaza-sim/sim/variate Sampler

func TestMain(m *testing.M) {
	// Suppress per-vehicle logs during tests.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./sim/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

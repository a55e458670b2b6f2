package service_test

import (
	"time"

	"github.com/thiagoricci/Rewlio/internal/config"
	"github.com/thiagoricci/Rewlio/internal/metrics"
)

// promauto registers against the default registry, so the package shares one
// instance across tests.
var testMetrics = metrics.NewMetrics()

func testConfig() *config.Config {
	return &config.Config{
		Credits: config.Credits{SignupGrant: 10},
		Collect: config.Collect{
			PollInterval: 5 * time.Millisecond,
			WaitCeiling:  60 * time.Millisecond,
		},
	}
}

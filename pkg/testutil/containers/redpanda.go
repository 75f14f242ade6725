//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer wraps a testcontainers Redpanda instance. It speaks
// the Kafka protocol, so the notification relay tests run against it
// without a full Kafka cluster.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

// NewRedpandaContainer starts a new Redpanda container.
func NewRedpandaContainer(t *testing.T) *RedpandaContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredpanda.Run(ctx,
		"docker.redpanda.com/redpandadata/redpanda:v24.3.1",
		tcredpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redpanda seed broker: %v", err)
	}

	// No t.Cleanup here: the container is shared across suites via the
	// singleton Manager and reaped by Ryuk at process exit.

	return &RedpandaContainer{
		Container: container,
		Brokers:   []string{broker},
	}
}

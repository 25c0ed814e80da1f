package helper

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"
)

const testNeo4jPassword = "kgraphtest"

// MustStartNeo4jContainer starts a disposable Neo4j container for integration
// tests and returns its teardown function and bolt URI.
func MustStartNeo4jContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := tcneo4j.Run(ctx,
		"neo4j:5",
		tcneo4j.WithAdminPassword(testNeo4jPassword),
	)
	if err != nil {
		return nil, "", NewError("start neo4j container", err)
	}

	uri, err := container.BoltUrl(ctx)
	if err != nil {
		return container.Terminate, "", NewError("resolve bolt url", err)
	}

	return container.Terminate, uri, nil
}

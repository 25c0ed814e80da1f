package helper

import (
	"fmt"
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// Neo4jConfiguration holds the connection settings for the graph database.
type Neo4jConfiguration struct {
	Uri      string
	Username string
	Password string
	Database string
}

// NewNeo4jConfiguration reads the graph database configuration from the
// environment. A .env file is loaded first if present. KGRAPH_NEO4J_PASSWORD
// is required, the other values fall back to local defaults.
func NewNeo4jConfiguration() (*Neo4jConfiguration, error) {
	godotenv.Load()

	config := &Neo4jConfiguration{
		Uri:      getEnvOrDefault("KGRAPH_NEO4J_URI", "bolt://localhost:7687"),
		Username: getEnvOrDefault("KGRAPH_NEO4J_USER", "neo4j"),
		Password: os.Getenv("KGRAPH_NEO4J_PASSWORD"),
		Database: getEnvOrDefault("KGRAPH_NEO4J_DATABASE", "neo4j"),
	}

	if config.Password == "" {
		return nil, NewError("read neo4j configuration", fmt.Errorf("KGRAPH_NEO4J_PASSWORD is not set"))
	}

	return config, nil
}

// SetTestNeo4jConfigEnvs sets the configuration environment variables for a
// test instance, typically pointing at a container started by
// MustStartNeo4jContainer.
func SetTestNeo4jConfigEnvs(t testing.TB, uri string) {
	t.Setenv("KGRAPH_NEO4J_URI", uri)
	t.Setenv("KGRAPH_NEO4J_USER", "neo4j")
	t.Setenv("KGRAPH_NEO4J_PASSWORD", testNeo4jPassword)
	t.Setenv("KGRAPH_NEO4J_DATABASE", "neo4j")
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/storage"
	"github.com/JaimeStill/steward/pkg/telemetry"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=stewardstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/stewardstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "steward",
			User:            "steward",
			Password:        "steward",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "compliance-documents",
			ConnectionString: azuriteConnString,
		},
		Telemetry: telemetry.Config{Exporter: telemetry.ExporterNone},
		Version:   "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Notify == nil {
		t.Error("Notify is nil")
	}
	if infra.Telemetry == nil {
		t.Error("Telemetry is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNotReadyBeforeStartup(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Ready() {
		t.Error("infrastructure should not be ready before startup completes")
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/diwise/explorable/internal/pkg/application/inspector"
	"github.com/diwise/explorable/internal/pkg/infrastructure/router"
	"github.com/diwise/explorable/internal/pkg/presentation/api/inspect"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName string = "explorable-inspector"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	cfg, err := loadConfiguration(ctx)
	if err != nil {
		log.Error("failed to load configuration", "err", err.Error())
		os.Exit(1)
	}

	catalog := inspector.NewCatalog()

	err = inspector.Seed(ctx, catalog, cfg)
	if err != nil {
		log.Error("failed to seed catalog", "err", err.Error())
		os.Exit(1)
	}

	policies, err := os.Open(env.GetVariableOrDefault(ctx, "POLICY_PATH", "/opt/diwise/config/authz.rego"))
	if err != nil {
		log.Error("unable to open opa policy file", "err", err.Error())
		os.Exit(1)
	}
	defer policies.Close()

	r := router.New(serviceName, cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials)

	err = inspect.RegisterHandlers(ctx, r, policies, catalog)
	if err != nil {
		log.Error("failed to register api handlers", "err", err.Error())
		os.Exit(1)
	}

	port := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")

	log.Info("starting to listen for connections", "port", port, "explorables", len(cfg.Explorables))

	err = http.ListenAndServe(":"+port, otelhttp.NewHandler(r, serviceName))
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}

func loadConfiguration(ctx context.Context) (*inspector.Config, error) {
	path := env.GetVariableOrDefault(ctx, "INSPECTOR_CONFIG_PATH", "/opt/diwise/config/inspector.yaml")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file %s: %w", path, err)
	}
	defer f.Close()

	return inspector.LoadConfiguration(f)
}

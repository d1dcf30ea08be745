// @title Commitbot API
// @version 1.0.0
// @description Ingests GitHub push webhooks into per-user, per-repository commit aggregates.
// @BasePath /commitbot

// @Tag.name Commitbot Meta
// @Tag.description Operational probes and metadata about the service.

// @Tag.name Commitbot Webhooks
// @Tag.description GitHub webhook intake.

// @Tag.name Commitbot Commits
// @Tag.description Stored commit aggregates.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"commitbot/internal"
	"commitbot/internal/swagger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on (defaults to $PORT)")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Println("Usage: server --deployment <type> [--port <port>] [--env-root <dir>] [--app-version <version>]")
			os.Exit(1)
		}
		deploy = strings.TrimSpace(args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cfg, cleanup, err := internal.SetupApp(ctx, deploy, *envRoot, *appVersion)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}
	defer cleanup()

	swagger.Register(app, cfg.Version)

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if port == "" {
		port = "8080"
	}

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	fmt.Println("APP VERSION:", cfg.Version)

	if err := app.Listen(fmt.Sprintf(":%s", port), fiber.ListenConfig{
		EnablePrefork: cfg.Prefork,
	}); err != nil {
		log.Printf("Error listening on port %s: %v", port, err)
	}
}

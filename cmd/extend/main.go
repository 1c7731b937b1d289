package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walrus-extend/app"
	"walrus-extend/conf"
	"walrus-extend/controller"
)

var ENV string

func init() {
	flag.StringVar(&ENV, "env", "mainnet", "Environment: loc/mainnet/testnet/example")
}

// @title           Walrus Extend API
// @version         1.0
// @description     Walrus blob search, funding status and tipping API
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:7291
// @BasePath  /api/v1

// @schemes https http

func main() {
	// Initialize all components
	a, srv := initAll()
	defer a.Close()

	// Start background refetch (network status, connected wallet balance)
	a.Refresher.Start()

	// Start HTTP API service (in goroutine)
	go startServer(srv)
	log.Println("Extend API service started successfully")

	// Wait for shutdown signal
	waitForShutdown()

	log.Println("Shutting down extend service...")
	a.Refresher.Stop()

	// Gracefully shutdown HTTP service
	shutdownServer(srv)

	log.Println("Server exited")
}

// initEnv initialize environment
func initEnv() {
	env, err := conf.ParseEnvironment(ENV)
	if err != nil {
		log.Printf("⚠️  %v, falling back to %s", err, env)
	}
	conf.SystemEnvironmentEnum = env
	fmt.Printf("Environment: %s\n", env)
}

// initAll initialize all components
func initAll() (*app.App, *http.Server) {
	// Parse command line parameters
	flag.Parse()

	// Set environment
	initEnv()

	// Initialize configuration
	if err := conf.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	log.Printf("Configuration loaded: env=%s, net=%s, port=%s", ENV, conf.Cfg.Net, conf.Cfg.Port)

	a, err := app.New(context.Background(), conf.Cfg)
	if err != nil {
		log.Fatalf("Failed to initialize extend service: %v", err)
	}

	router := controller.SetupExtendRouter(a.Services())

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + conf.Cfg.Port,
		Handler: router,
	}
	return a, srv
}

// startServer start HTTP server
func startServer(srv *http.Server) {
	log.Printf("Extend API service starting on port %s...", conf.Cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// waitForShutdown wait for shutdown signal
func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

// shutdownServer gracefully shutdown server
func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

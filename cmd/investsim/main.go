// Command investsim talks to a running simulation server over gRPC.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	grpcadapter "github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

var (
	serverAddr string
	apiToken   string
	userID     string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "investsim",
	Short: "Run and inspect investment simulations",
	Long: `investsim is a command line client for the simulation server.

Available commands:
  simulate  - Run (and optionally save) a simulation
  list      - List saved simulations
  dashboard - Show saved simulation totals
  assets    - Browse the asset catalog`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", envOr("INVESTSIM_ADDR", "localhost:8080"), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", envOr("API_TOKEN", "dev-token"), "API token")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("INVESTSIM_USER"), "user id; required to save or list simulations")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(simulateCmd, listCmd, dashboardCmd, assetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect dials the server and returns a client plus an authenticated request context
func connect(parent context.Context) (investsimv1.SimulationServiceClient, context.Context, func(), error) {
	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", serverAddr, err)
	}

	md := metadata.Pairs("authorization", apiToken)
	if userID != "" {
		md.Append(grpcadapter.UserIDHeader, userID)
	}
	ctx, cancel := context.WithTimeout(metadata.NewOutgoingContext(parent, md), timeout)

	cleanup := func() {
		cancel()
		conn.Close()
	}
	return investsimv1.NewSimulationServiceClient(conn), ctx, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

var (
	simAssets    []string
	simAmount    string
	simStart     string
	simEnd       string
	simReinvest  bool
	simRisk      string
	simFrequency string
	simSave      bool
	simName      string

	listType      string
	assetCategory string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulation",
	Long: `Run a simulation over historical prices.

Without --end the simulation tracks up to today and, when saved, keeps being
re-evaluated at the chosen --frequency.`,
	Example: `  investsim simulate --assets AAPL,MSFT --amount 10000 --start 2024-01-01 --end 2024-12-31
  investsim simulate --user alice --save --name "Tech" --assets QQQ --amount 5000 --start 2024-01-01`,
	RunE: runSimulate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved simulations",
	RunE:  runList,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show totals across saved simulations",
	RunE:  runDashboard,
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the asset catalog",
	RunE:  runAssets,
}

func init() {
	f := simulateCmd.Flags()
	f.StringSliceVar(&simAssets, "assets", nil, "comma separated tickers")
	f.StringVar(&simAmount, "amount", "", "amount to invest")
	f.StringVar(&simStart, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&simEnd, "end", "", "end date (YYYY-MM-DD); omit for daily tracking")
	f.BoolVar(&simReinvest, "reinvest", false, "reinvest dividends")
	f.StringVar(&simRisk, "risk", "moderate", "risk level: conservative, moderate or aggressive")
	f.StringVar(&simFrequency, "frequency", "", "tracking frequency for saved daily simulations: daily, weekly or monthly")
	f.BoolVar(&simSave, "save", false, "save the simulation (requires --user)")
	f.StringVar(&simName, "name", "", "name of the saved simulation")
	_ = simulateCmd.MarkFlagRequired("assets")
	_ = simulateCmd.MarkFlagRequired("amount")
	_ = simulateCmd.MarkFlagRequired("start")

	listCmd.Flags().StringVar(&listType, "type", "", "filter by mode: finite or daily")
	assetsCmd.Flags().StringVar(&assetCategory, "category", "", "filter by category: stocks, indices or crypto")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(simAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount %q: %w", simAmount, err)
	}

	params := &investsimv1.SimulationParams{
		AssetIds:              simAssets,
		Amount:                amount,
		StartDate:             simStart,
		EndDate:               simEnd,
		ReinvestDividends:     simReinvest,
		RiskLevel:             simRisk,
		NotificationFrequency: simFrequency,
	}

	client, ctx, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if simSave {
		resp, err := client.SaveSimulation(ctx, &investsimv1.SaveSimulationRequest{Name: simName, Params: params})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved %q (%s)\n\n", resp.Simulation.Name, resp.Simulation.Id)
		printOutcome(os.Stdout, resp.Simulation.Outcome)
		return nil
	}

	resp, err := client.RunSimulation(ctx, &investsimv1.RunSimulationRequest{Params: params})
	if err != nil {
		return err
	}
	printOutcome(os.Stdout, resp.Outcome)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	client, ctx, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListSimulations(ctx, &investsimv1.ListSimulationsRequest{Mode: listType})
	if err != nil {
		return err
	}
	printSimulations(os.Stdout, resp.Simulations)
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, ctx, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetDashboard(ctx, &investsimv1.GetDashboardRequest{})
	if err != nil {
		return err
	}
	printDashboard(os.Stdout, resp)
	return nil
}

func runAssets(cmd *cobra.Command, args []string) error {
	client, ctx, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListAssets(ctx, &investsimv1.ListAssetsRequest{Category: strings.ToLower(assetCategory)})
	if err != nil {
		return err
	}
	printAssets(os.Stdout, resp.Assets)
	return nil
}

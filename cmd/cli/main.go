package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/ops-task-report/internal/aggregator"
	"github.com/kurihiro0119/ops-task-report/internal/collector"
	"github.com/kurihiro0119/ops-task-report/internal/config"
	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/exporter"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
	"github.com/kurihiro0119/ops-task-report/internal/network"
	"github.com/kurihiro0119/ops-task-report/internal/pipeline"
	"github.com/kurihiro0119/ops-task-report/internal/resolver"
	"github.com/kurihiro0119/ops-task-report/internal/storage"
	"github.com/kurihiro0119/ops-task-report/internal/storage/postgres"
	"github.com/kurihiro0119/ops-task-report/internal/storage/sqlite"
	"github.com/kurihiro0119/ops-task-report/pkg/client"
)

var (
	runsLimit  int
	showRemote bool
)

var rootCmd = &cobra.Command{
	Use:   "ops-report",
	Short: "Daily automation task report",
	Long: `Collects automation tasks created in the last 24 hours on every supported
network, names them from the task-names document store, and writes the rows
to Ops-<DD_MM_YYYY>.xlsx.`,
	Args:          cobra.NoArgs,
	RunE:          runCollect,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List supported networks",
	Args:  cobra.NoArgs,
	RunE:  runNetworks,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the records of an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showFileCmd = &cobra.Command{
	Use:   "show-file [path]",
	Short: "Print an exported workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowFile,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", storage.DefaultListLimit, "number of runs to list")
	showCmd.Flags().BoolVar(&showRemote, "remote", false, "read from the API server at API_ENDPOINT")

	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(showFileCmd)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	case "sqlite":
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("no archive configured (STORAGE_TYPE=%s)", cfg.StorageType)
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{}
	if cfg.ArchiveEnabled() {
		store, err := getStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithArchive(store))
	}

	tasks := collector.NewSubgraphCollector(
		collector.WithThrottle(collector.NewThrottle(cfg.RequestMinDelay)),
	)
	names := resolver.New(resolver.NewFirestoreStore(resolver.FirestoreOptionsFromConfig(cfg)), nil)
	out := exporter.New(cfg.OutputDir)

	res, err := pipeline.New(tasks, names, out, opts...).Run(context.Background())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Network", "Chain", "New Tasks", "Unnamed"})
	for _, s := range res.Summary {
		table.Append([]string{s.Network, s.ChainID, fmt.Sprintf("%d", s.Tasks), fmt.Sprintf("%d", s.Unnamed)})
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d", len(res.Records)), res.OutputPath})
	table.Render()

	return nil
}

func runNetworks(cmd *cobra.Command, args []string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Network", "Chain", "Excluded Executor", "Subgraph"})
	for _, n := range network.Default().Configs() {
		table.Append([]string{n.ID, n.ChainID, n.ExclusionAddress, n.QueryEndpoint})
	}
	table.Render()
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	runs, err := aggregator.NewAggregator(store, nil).ListRuns(context.Background(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Run", "Started", "Status", "Records", "Output"})
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			string(r.Status),
			fmt.Sprintf("%d", r.RecordCount),
			r.OutputPath,
		})
	}
	table.Render()
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	runID := args[0]
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var records []domain.EnrichedRecord
	if showRemote {
		records, err = client.NewClient(cfg.APIEndpoint).GetRecords(ctx, runID)
	} else {
		var store storage.Storage
		store, err = getStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()
		records, err = aggregator.NewAggregator(store, nil).GetRecords(ctx, runID)
	}
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values())
	}
	renderRows(cmd.OutOrStdout(), domain.Columns(), rows)
	return nil
}

func runShowFile(cmd *cobra.Command, args []string) error {
	rows, err := exporter.ReadRows(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s has no header row", args[0])
	}
	renderRows(cmd.OutOrStdout(), rows[0], rows[1:])
	return nil
}

func renderRows(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

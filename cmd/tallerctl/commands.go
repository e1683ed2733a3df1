package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/taller/internal/config"
	"github.com/JonMunkholm/taller/internal/core"
	"github.com/JonMunkholm/taller/internal/database"
	"github.com/JonMunkholm/taller/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile  string
	logLevel string
	columns  string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "tallerctl",
		Short:         "Workshop database and import tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("load %s: %w", opts.envFile, err)
				}
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.columns, "columns", "", "Column specification YAML (default: built-in)")

	cmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newValidateCmd(&opts),
		newPreviewCmd(&opts),
		newImportCmd(&opts),
	)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample vehicles and mechanics into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			res, err := database.New(pool).Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d vehiculos, %d mecanicos\n", res.Vehiculos, res.Mecanicos)
			return nil
		},
	}
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a file's columns without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, data, err := offlineService(root, args[0])
			if err != nil {
				return err
			}
			report, err := svc.ValidateFile(data)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valido {
				return fmt.Errorf("%s is missing required columns", filepath.Base(args[0]))
			}
			return nil
		},
	}
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the first rows of a file as they will be read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, data, err := offlineService(root, args[0])
			if err != nil {
				return err
			}
			sheet, err := core.ParseSheet(data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), core.BuildPreview(sheet, rows))
		},
	}
	cmd.Flags().IntVar(&rows, "rows", core.PreviewRows, "Number of rows to show")
	return cmd
}

type importOptions struct {
	direct    bool
	batchSize int
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import vehicles from a spreadsheet",
		Long: `Import vehicles from a .xlsx or .csv file.

By default rows are committed in batches and progress is printed as
JSON lines. With --direct the whole file is committed at once and the
file must contain every required column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.direct, "direct", false, "Commit the whole file in one transaction")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", core.DefaultBatchSize, "Rows per commit in progress mode")
	return cmd
}

func runImport(ctx context.Context, out io.Writer, root *rootOptions, opts importOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	columns, err := core.LoadColumns(root.columns)
	if err != nil {
		return err
	}

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := core.NewService(pool, columns, lineNotifier{w: out}, core.WithImportBatchSize(opts.batchSize))
	req := core.ImportRequest{
		JobID:     uuid.NewString(),
		SessionID: "cli",
		FileName:  filepath.Base(path),
		Data:      data,
	}

	var res core.ImportResult
	if opts.direct {
		res, err = svc.ImportDirect(ctx, req)
	} else {
		res, err = svc.ImportWithProgress(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("%s", core.FormatUserError(err))
	}
	return printJSON(out, res)
}

// lineNotifier prints progress events as JSON lines.
type lineNotifier struct {
	w io.Writer
}

func (n lineNotifier) Push(_ string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintln(n.w, string(b))
}

func offlineService(root *rootOptions, path string) (*core.Service, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	columns, err := core.LoadColumns(root.columns)
	if err != nil {
		return nil, nil, err
	}
	return core.NewService(nil, columns, nil), data, nil
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	return database.Connect(ctx, poolConfig, cfg.Database.ConnectAttempts, cfg.Database.ConnectDelay)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

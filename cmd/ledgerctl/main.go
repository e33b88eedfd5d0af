// Command ledgerctl runs the scheduled jobs and maintenance tasks of the
// backend from a shell or a Kubernetes CronJob
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/application/notification"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/mail"
	"github.com/bizledger/backend/internal/infrastructure/migration"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
)

const dateLayout = "2006-01-02"

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Operator commands for the BizLedger backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var processRecurringCmd = &cobra.Command{
	Use:   "process-recurring",
	Short: "Materialize due recurring transactions",
	Long: `Materialize every recurring transaction whose next run is due.

Examples:
  ledgerctl process-recurring                         # all companies, now
  ledgerctl process-recurring --tenant <uuid>         # one company
  ledgerctl process-recurring --at 2024-06-01         # as of a date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		now, err := atFlag(cmd)
		if err != nil {
			return err
		}
		tenant, err := tenantFlag(cmd)
		if err != nil {
			return err
		}

		policy, err := recurrence.ParseCatchUpPolicy(env.cfg.Recurrence.CatchUpPolicy)
		if err != nil {
			return err
		}
		processor := recurrenceapp.NewProcessor(
			persistence.NewGormRecurringTransactionRepository(env.db.DB),
			persistence.NewGormCompanyRepository(env.db.DB),
			persistence.NewGormTransactionScope(env.db.DB).RecurrenceScope(),
			recurrenceapp.ProcessorConfig{Policy: policy, MaxCatchUpPeriods: env.cfg.Recurrence.MaxCatchUpPeriods},
			env.log,
		)

		ctx := cmd.Context()
		var result *recurrenceapp.ProcessResult
		if tenant != nil {
			result, err = processor.ProcessDue(ctx, *tenant, now)
		} else {
			result, err = processor.ProcessAllTenants(ctx, now)
		}
		if err != nil {
			return err
		}
		fmt.Printf("processed=%d deactivated=%d skipped=%d failed=%d\n",
			result.Processed, result.Deactivated, result.Skipped, result.Failed)
		return nil
	},
}

var sendRemindersCmd = &cobra.Command{
	Use:   "send-reminders",
	Short: "Email assignees about tasks that are due soon or overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		now, err := atFlag(cmd)
		if err != nil {
			return err
		}
		windowDays, _ := cmd.Flags().GetInt("window-days")
		if windowDays <= 0 {
			windowDays = env.cfg.Scheduler.ReminderWindowDays
		}

		notifier, err := env.notifier()
		if err != nil {
			return err
		}
		store, err := cache.NewIdempotencyStoreFactory(env.redis,
			cache.WithLogger(env.log),
			cache.WithKeyPrefix("bizledger:reminder:"),
			cache.WithInMemoryFallback(true),
		).CreateStore()
		if err != nil {
			return err
		}

		reminders := notification.NewReminderService(
			persistence.NewGormTaskRepository(env.db.DB),
			persistence.NewGormEmployeeRepository(env.db.DB),
			notifier,
			store,
			windowDays,
			env.log,
		)
		result, err := reminders.SendDue(cmd.Context(), now)
		if err != nil {
			return err
		}
		fmt.Printf("emails_sent=%d errors=%d already_sent=%d\n",
			result.EmailsSent, result.Errors, result.Details.AlreadySent)
		return nil
	},
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "seed-categories",
	Short: "Create the default expense and income categories for companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		tenant, err := tenantFlag(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		tenants := []uuid.UUID{}
		if tenant != nil {
			tenants = append(tenants, *tenant)
		} else {
			if tenants, err = persistence.NewGormCompanyRepository(env.db.DB).FindAllIDs(ctx); err != nil {
				return err
			}
		}

		categories := ledgerapp.NewCategoryService(
			persistence.NewGormCategoryRepository(env.db.DB),
			persistence.NewGormTransactionScope(env.db.DB).LedgerScope(),
			env.log,
		)
		for _, id := range tenants {
			result, err := categories.SeedDefaultsForTenant(ctx, id)
			if err != nil {
				return fmt.Errorf("seed categories for %s: %w", id, err)
			}
			fmt.Printf("%s created=%d skipped=%d\n", id, len(result.Created), len(result.Skipped))
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		sqlDB, err := env.db.DB.DB()
		if err != nil {
			return err
		}
		m, err := migration.New(sqlDB, env.log)
		if err != nil {
			return err
		}
		if err := m.Up(); err != nil {
			return err
		}
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{processRecurringCmd, sendRemindersCmd} {
		cmd.Flags().String("at", "", "Run as of this date (YYYY-MM-DD, default now)")
	}
	for _, cmd := range []*cobra.Command{processRecurringCmd, seedCategoriesCmd} {
		cmd.Flags().String("tenant", "", "Limit to one company id (default all companies)")
	}
	sendRemindersCmd.Flags().Int("window-days", 0, "Remind about tasks due within this many days (default from config)")

	rootCmd.AddCommand(processRecurringCmd)
	rootCmd.AddCommand(sendRemindersCmd)
	rootCmd.AddCommand(seedCategoriesCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is the configuration and connections shared by the commands
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *persistence.Database
	redis redis.UniversalClient
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, false)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, db: db}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if rc, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable", zap.Error(err))
	} else {
		e.redis = rc
	}
	return e, nil
}

func (e *env) notifier() (notification.Notifier, error) {
	if e.cfg.Notification.Enabled {
		return mail.NewSMTPNotifier(e.cfg.Notification, e.log)
	}
	return mail.NewLogNotifier(e.cfg.Notification.AppURL, e.log)
}

func (e *env) close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	if err := e.db.Close(); err != nil {
		e.log.Error("Error closing database", zap.Error(err))
	}
	_ = e.log.Sync()
}

func atFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("at")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	at, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: expected YYYY-MM-DD", raw)
	}
	return at, nil
}

func tenantFlag(cmd *cobra.Command) (*uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("tenant")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --tenant %q: %w", raw, err)
	}
	return &id, nil
}

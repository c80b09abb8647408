package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idegeus/zweefbot/internal/config"
	"github.com/idegeus/zweefbot/pkg/clients/gmailclient"
	"github.com/idegeus/zweefbot/pkg/clients/supersaasclient"
	"github.com/idegeus/zweefbot/pkg/clients/zweefclient"
	"github.com/idegeus/zweefbot/pkg/core/services"
	"github.com/idegeus/zweefbot/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg         *config.Config
	secrets     *config.Secrets
	oauthCfg    *config.OAuthClientConfig
	zweefClient *zweefclient.Client
	saasClient  *supersaasclient.Client
	gmailClient *gmailclient.Client
	logger      *zap.Logger
	ctx         context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zweefbot",
		Short: "Zweefbot CLI - Manage flying day signups",
		Long:  `A CLI tool that enforces the club's signup rules on upcoming flying days and keeps each day's status message up to date.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(processDaysCmd())
	rootCmd.AddCommand(listDaysCmd())
	rootCmd.AddCommand(listMembersCmd())
	rootCmd.AddCommand(sendTestEmailCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, secrets, and the upstream clients
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Load secrets from the environment
	app.logger.Info("Loading secrets")
	app.secrets, err = config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	app.logger.Debug("Secrets loaded successfully")

	// Load OAuth client configuration
	app.logger.Info("Loading OAuth client configuration")
	app.oauthCfg, err = config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	app.logger.Debug("OAuth configuration loaded successfully")

	// Initialize gmail client
	app.logger.Info("Initializing gmail client")
	app.gmailClient, err = gmailclient.NewClient(app.ctx, app.oauthCfg, app.cfg.GmailUserID, app.cfg.GmailSender)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.logger.Debug("Gmail client initialized successfully")

	// Initialize the club API client and log in as the admin account
	app.logger.Info("Initializing club client", zap.String("club", app.cfg.ClubSlug))
	app.zweefClient = zweefclient.NewClient(
		app.cfg.AdminBaseURL,
		app.cfg.ClubSlug,
		app.cfg.ClubAppURL,
		app.cfg.AppVersion,
		app.secrets.ZweefAPIKey,
	)
	if err := app.zweefClient.Login(app.ctx, app.secrets.AdminEmail, app.secrets.AdminPassword, app.secrets.AdminClientSecret); err != nil {
		return fmt.Errorf("failed to log in to club API: %w", err)
	}
	app.logger.Debug("Club client logged in successfully")

	// Initialize the passenger booking client
	app.logger.Info("Initializing booking client", zap.Int("calendar_id", app.cfg.SupersaasCalendarID))
	app.saasClient = supersaasclient.NewClient(app.cfg.SupersaasCalendarID, app.secrets.SupersaasAPIKey)

	return nil
}

// Command definitions

func processDaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "processDays",
		Short: "Enforce the signup rules on all upcoming flying days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			production, _ := cmd.Flags().GetBool("production")

			result, err := services.ProcessDays(
				app.ctx,
				app.zweefClient,
				app.zweefClient,
				app.zweefClient,
				app.gmailClient,
				app.saasClient,
				app.zweefClient,
				app.cfg,
				app.logger,
				services.ProcessOptions{DryRun: dryRun, Production: production},
			)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Run %s completed!\n\n", result.RunID)
			fmt.Printf("Days processed: %d/%d\n", result.DaysProcessed, result.DaysTotal)
			fmt.Printf("Signups removed: %d\n", len(result.Removed))
			fmt.Printf("Day messages set: %d\n\n", result.MessagesSet)

			for _, removed := range result.Removed {
				fmt.Printf("  ✓ Removed member %d from day %d (%s)\n", removed.MemberID, removed.DayID, removed.Reason)
			}

			if len(result.SkippedDays) > 0 {
				fmt.Printf("\n⚠️  Skipped %d days:\n", len(result.SkippedDays))
				for _, skipped := range result.SkippedDays {
					fmt.Printf("  ✗ Day %d (%s): %s\n", skipped.DayID, skipped.Date.Format("2006-01-02"), skipped.Err)
				}
			}

			if len(result.FailedRemovals) > 0 {
				fmt.Printf("\n⚠️  Failed to remove %d signups:\n", len(result.FailedRemovals))
				for _, failed := range result.FailedRemovals {
					fmt.Printf("  ✗ Member %d on day %d: %s\n", failed.Decision.MemberID, failed.Decision.DayID, failed.Err)
				}
			}

			if len(result.FailedNotifications) > 0 {
				fmt.Printf("\n⚠️  Failed to send %d emails:\n", len(result.FailedNotifications))
				for _, failed := range result.FailedNotifications {
					fmt.Printf("  ✗ %s: %s\n", failed.Email, failed.Err)
				}
			}

			if len(result.FailedMessages) > 0 {
				fmt.Printf("\n⚠️  Failed to set %d day messages:\n", len(result.FailedMessages))
				for _, failed := range result.FailedMessages {
					fmt.Printf("  ✗ Day %d: %s\n", failed.DayID, failed.Err)
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Evaluate the rules without removing signups or sending anything")
	cmd.Flags().Bool("production", false, "Pace the upstream requests for an unattended production run")

	return cmd
}

func listDaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listDays",
		Short: "List the club's days as the API reports them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Info("listDays command")

			days, err := app.zweefClient.ListDays(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list days: %w", err)
			}

			app.logger.Info("Days fetched successfully", zap.Int("count", len(days)))

			fmt.Printf("\nFound %d days:\n\n", len(days))
			for _, day := range days {
				marker := " "
				if day.FlyingDay {
					marker = "✈"
				}
				fmt.Printf("%s %6d  %s\n", marker, day.ID, day.Date.Format("2006-01-02 (Monday)"))
			}

			return nil
		},
	}
}

func listMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List all members from the club directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Info("listMembers command")

			members, err := app.zweefClient.ListAccounts(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list members: %w", err)
			}

			app.logger.Info("Members fetched successfully", zap.Int("count", len(members)))

			fmt.Printf("\nFound %d members:\n\n", len(members))
			for _, member := range members {
				fmt.Printf("- %s (%d) - %s\n", member.FullName(), member.ID, member.Email)
			}

			return nil
		},
	}
}

func sendTestEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sendTestEmail <address>",
		Short: "Send a test email to verify the gmail setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]

			app.logger.Info("sendTestEmail command", zap.String("address", address))

			subject := fmt.Sprintf("Testbericht van zweefbot %s", app.cfg.ClubName)
			body := "Dit is een testbericht van de zweefbot. Als je dit leest werkt de mailkoppeling.\n\n-- Webmaster ZweefApp\n"
			if err := app.gmailClient.SendEmail(address, subject, body); err != nil {
				return fmt.Errorf("failed to send test email: %w", err)
			}

			fmt.Printf("\n✓ Test email sent to %s\n", address)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"roster-guard/pkg/database"
	"roster-guard/pkg/jwt"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.NewDB(&cfg.Database, "warn", logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return err
		}
		version, dirty, err := database.MigrationVersion(sqlDB)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
		return nil
	},
}

var (
	tokenEmployee string
	tokenRole     string
	tokenTTL      time.Duration
)

// tokenCmd 本地联调用：用配置中的密钥签发 Token
var tokenCmd = &cobra.Command{
	Use:    "token",
	Short:  "Issue a bearer token signed with the configured secret (development only)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		tok, err := jwt.NewManager(&cfg.Auth).GenerateToken(tokenEmployee, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmployee, "employee", "", "Employee id carried in the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "scheduler", "Role carried in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("employee")
}

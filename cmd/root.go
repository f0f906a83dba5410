package cmd

import (
	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"

	"github.com/dumproll/dumproll/internal/archive"
	"github.com/dumproll/dumproll/internal/backup"
	"github.com/dumproll/dumproll/internal/config"
	"github.com/dumproll/dumproll/internal/domain"
	"github.com/dumproll/dumproll/internal/dump"
	"github.com/dumproll/dumproll/internal/store"
)

var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dumproll",
	Short: "Daily MySQL backups to S3-compatible object storage",
	Long: `Dumproll produces a consistent mysqldump of one database, compresses
it, uploads it to an S3-compatible bucket and prunes local copies past
the retention window. All settings come from the environment (a .env
file next to the binary is honored). Exit status is 0 on success and 1
on any failure, for consumption by cron or a systemd timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		local, err := store.NewLocalStore(cfg.LocalBackupDir)
		if err != nil {
			return err
		}
		remote, err := store.NewRemoteStore(cfg.S3Endpoint, cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return err
		}

		producer := dump.Producer{
			Path:     cfg.MysqldumpPath,
			Host:     cfg.MySQLHost,
			Port:     cfg.MySQLPort,
			User:     cfg.MySQLUser,
			Password: cfg.MySQLPassword,
			Database: cfg.MySQLDatabase,
		}

		runner := backup.NewRunner(
			producer,
			archive.Compress,
			local,
			remote,
			cfg.MySQLDatabase,
			domain.RetentionWindow{Days: cfg.KeepLocalDays},
		)

		return runner.Run(cmd.Context())
	},
}

// Execute runs the CLI. Any error surfaces as exit status 1, the only
// machine-readable outcome external schedulers see.
func Execute(version, commit, date string) {
	if version != "" {
		BuildVersion = version
	}
	if commit != "" {
		BuildCommit = commit
	}
	if date != "" {
		BuildDate = date
	}

	cobra.CheckErr(rootCmd.Execute())
}

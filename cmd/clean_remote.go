package cmd

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dumproll/dumproll/internal/config"
	"github.com/dumproll/dumproll/internal/domain"
	"github.com/dumproll/dumproll/internal/store"
)

var cleanRemoteCmd = &cobra.Command{
	Use:   "clean-remote",
	Short: "Delete remote backups past the retention window",
	Long: `Sweep the bucket prefix and delete every backup whose embedded date is
older than KEEP_REMOTE_DAYS.

This never runs as part of a normal backup. Prefer the bucket's own
lifecycle expiry for destructive remote deletes; this command exists
for providers without one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		remote, err := store.NewRemoteStore(cfg.S3Endpoint, cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return err
		}

		deleted, err := remote.Sweep(cmd.Context(), time.Now(), domain.RetentionWindow{Days: cfg.KeepRemoteDays})
		if err != nil {
			return err
		}

		log.Info("remote retention sweep complete", "deleted", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanRemoteCmd)
}

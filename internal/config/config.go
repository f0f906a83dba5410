package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every runtime setting. It is built once at startup
// and passed by value into constructors; nothing reads the environment
// after Load returns.
type Config struct {
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string
	MySQLHost     string
	MySQLPort     int

	MysqldumpPath  string
	LocalBackupDir string
	KeepLocalDays  int

	S3Endpoint        string
	S3Bucket          string
	S3Prefix          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	KeepRemoteDays    int
}

// Settings with no usable default. Load fails before any backup work
// starts if one of these is unset.
var required = []string{
	"MYSQL_USER",
	"MYSQL_PASSWORD",
	"MYSQL_DATABASE",
	"S3_ENDPOINT",
	"S3_BUCKET",
	"S3_ACCESS_KEY_ID",
	"S3_SECRET_ACCESS_KEY",
}

// Load reads configuration from the environment. A .env file next to
// the binary is honored through the godotenv autoload import in cmd.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_PORT", 3306)
	v.SetDefault("MYSQLDUMP_PATH", "mysqldump")
	v.SetDefault("LOCAL_BACKUP_DIR", "/backups")
	v.SetDefault("KEEP_LOCAL_DAYS", 3)
	v.SetDefault("S3_PREFIX", "mysql-backups/")
	v.SetDefault("KEEP_REMOTE_DAYS", 30)

	var missing []string
	for _, name := range required {
		if v.GetString(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := Config{
		MySQLUser:     v.GetString("MYSQL_USER"),
		MySQLPassword: v.GetString("MYSQL_PASSWORD"),
		MySQLDatabase: v.GetString("MYSQL_DATABASE"),
		MySQLHost:     v.GetString("MYSQL_HOST"),
		MySQLPort:     v.GetInt("MYSQL_PORT"),

		MysqldumpPath:  v.GetString("MYSQLDUMP_PATH"),
		LocalBackupDir: v.GetString("LOCAL_BACKUP_DIR"),
		KeepLocalDays:  v.GetInt("KEEP_LOCAL_DAYS"),

		S3Endpoint:        v.GetString("S3_ENDPOINT"),
		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Prefix:          v.GetString("S3_PREFIX"),
		S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		KeepRemoteDays:    v.GetInt("KEEP_REMOTE_DAYS"),
	}

	if cfg.MySQLPort <= 0 || cfg.MySQLPort > 65535 {
		return Config{}, fmt.Errorf("MYSQL_PORT must be a valid port number, got %d", cfg.MySQLPort)
	}
	if cfg.KeepLocalDays < 0 {
		return Config{}, fmt.Errorf("KEEP_LOCAL_DAYS must not be negative, got %d", cfg.KeepLocalDays)
	}
	if cfg.KeepRemoteDays < 0 {
		return Config{}, fmt.Errorf("KEEP_REMOTE_DAYS must not be negative, got %d", cfg.KeepRemoteDays)
	}

	return cfg, nil
}

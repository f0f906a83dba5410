package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MYSQL_USER", "backup")
	t.Setenv("MYSQL_PASSWORD", "hunter2")
	t.Setenv("MYSQL_DATABASE", "shopdb")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_BUCKET", "db-backups")
	t.Setenv("S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "backup", cfg.MySQLUser)
	assert.Equal(t, "shopdb", cfg.MySQLDatabase)
	assert.Equal(t, "localhost", cfg.MySQLHost)
	assert.Equal(t, 3306, cfg.MySQLPort)
	assert.Equal(t, "mysqldump", cfg.MysqldumpPath)
	assert.Equal(t, "/backups", cfg.LocalBackupDir)
	assert.Equal(t, 3, cfg.KeepLocalDays)
	assert.Equal(t, "mysql-backups/", cfg.S3Prefix)
	assert.Equal(t, 30, cfg.KeepRemoteDays)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("LOCAL_BACKUP_DIR", "/var/backups/mysql")
	t.Setenv("KEEP_LOCAL_DAYS", "7")
	t.Setenv("KEEP_REMOTE_DAYS", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.MySQLHost)
	assert.Equal(t, 3307, cfg.MySQLPort)
	assert.Equal(t, "/var/backups/mysql", cfg.LocalBackupDir)
	assert.Equal(t, 7, cfg.KeepLocalDays)
	assert.Equal(t, 90, cfg.KeepRemoteDays)
}

func TestLoadReportsEveryMissingVariable(t *testing.T) {
	setRequired(t)
	t.Setenv("MYSQL_PASSWORD", "")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYSQL_PASSWORD")
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestLoadRejectsNegativeRetention(t *testing.T) {
	setRequired(t)
	t.Setenv("KEEP_LOCAL_DAYS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEEP_LOCAL_DAYS")
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequired(t)
	t.Setenv("MYSQL_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYSQL_PORT")
}

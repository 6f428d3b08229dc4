package constants

import "time"

const (
	AppName            = "planner"
	DefaultKeyringUser = "database-connection"
	RedisKeyringUser   = "redis-password"
	LogFileName        = "planner.log"
	DefaultConfigDir   = "~/.config/planner"
	DefaultConfigPath  = "~/.config/planner/planner.db"
	DefaultConfigFile  = "~/.config/planner/config.yaml"
	Version            = "v0.3.0"

	// MillisPerDay is the length of a day bucket in epoch milliseconds
	MillisPerDay int64 = 24 * 60 * 60 * 1000

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "planner-"
	BackupFileSuffix = ".json"

	// Sync constants
	SyncLockfileName      = "planner-sync.lock"
	RemoteObjectName      = "planner-backup.json"
	DefaultRemotePrefix   = "backups"
	DefaultRemoteTimeout  = 10 * time.Second
	DefaultAutoSyncPeriod = 15 * time.Minute

	// Stats windows
	FinanceTrailingDays = 30
	RecentTransactions  = 10
	TopJournalTags      = 5
	MaxRecentSearches   = 10
	UpcomingLimit       = 5
)

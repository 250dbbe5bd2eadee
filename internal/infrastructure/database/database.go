package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"economy/internal/config"
	"economy/internal/model"
)

// Open connects to the configured store. The caller owns the returned handle
// and must close it through Close.
func Open(cfg *config.DatabaseConfig, log *logrus.Entry) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying db: %w", err)
	}

	// One logical session shared by every caller.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if cfg.Driver == config.DriverMySQL {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"path":   cfg.Path,
	}).Info("store connected")
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
		dsn := cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		return sqlite.Open(dsn), nil
	case config.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate ensures accounts, players and player_account_links exist, along
// with the index that allows only one main link per player. Safe to run on
// every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&model.Account{},
		&model.Player{},
		&model.PlayerAccountLink{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return ensureMainIndex(ctx, db)
}

const mainIndexName = "idx_player_account_links_one_main"

func ensureMainIndex(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if tx.Migrator().HasIndex(&model.PlayerAccountLink{}, mainIndexName) {
		return nil
	}

	var ddl string
	switch db.Dialector.Name() {
	case "sqlite":
		ddl = "CREATE UNIQUE INDEX IF NOT EXISTS " + mainIndexName +
			" ON player_account_links (player_id) WHERE main = 1"
	case "mysql":
		// MySQL has no partial indexes; a functional key part is NULL for
		// non-main rows, and NULLs never collide.
		ddl = "CREATE UNIQUE INDEX " + mainIndexName +
			" ON player_account_links ((CASE WHEN main THEN player_id END))"
	default:
		return errors.New("main-link index: unsupported dialect " + db.Dialector.Name())
	}

	if err := tx.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create main-link index: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the dataset database. DB_DRIVER selects "sqlite" (default,
// SQLITE_PATH) or "mysql" (MYSQL_DSN or MYSQL_* parts).
func NewDB() (*gorm.DB, error) {
	logMode := logger.Warn
	if GetEnv("GORM_LOG", "") == "off" {
		logMode = logger.Silent
	} else if GetEnvBool("DEBUG", false) {
		logMode = logger.Info
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logMode,
			Colorful:      true,
		},
	)

	var dialector gorm.Dialector
	switch driver := GetEnv("DB_DRIVER", "sqlite"); driver {
	case "mysql":
		dialector = mysql.Open(mysqlDSN())
	case "sqlite":
		dialector = sqlite.Open(GetEnv("SQLITE_PATH", "logpose.db"))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
}

func mysqlDSN() string {
	if dsn := GetEnv("MYSQL_DSN", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		GetEnv("MYSQL_USER", ""),
		GetEnv("MYSQL_PASS", ""),
		GetEnv("MYSQL_HOST", "127.0.0.1"),
		GetEnv("MYSQL_PORT", "3306"),
		GetEnv("MYSQL_DB", "logpose"),
	)
}

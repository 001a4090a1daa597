// Package dbtest 为单元测试提供临时 SQLite 数据库（纯 Go 驱动，无需 cgo/外部 MySQL）。
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

// Open 在 t.TempDir() 下创建一个独立数据库并迁移给定模型。
// 测试结束后由 TempDir 自动清理。
func Open(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crm_test.db")
	gdb, err := gorm.Open(gormlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if len(models) > 0 {
		if err := gdb.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test db: %v", err)
		}
	}
	return gdb
}

package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable 迁移版本表名，避免与业务表混在默认的 schema_migrations 里
const migrationsTable = "fyp_schema_migrations"

// migrationStems 列出内嵌迁移的文件名主干（如 0001_init），
// 每个 up 脚本必须有配套的 down 脚本，缺一即报错
func migrationStems() ([]string, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, f := range files {
		name := strings.TrimPrefix(f, "migrations/")
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			return nil, fmt.Errorf("迁移文件名不合法: %s", name)
		}
	}

	stems := make([]string, 0, len(ups))
	for stem := range ups {
		if !downs[stem] {
			return nil, fmt.Errorf("迁移 %s 缺少 down 脚本", stem)
		}
		stems = append(stems, stem)
	}
	for stem := range downs {
		if !ups[stem] {
			return nil, fmt.Errorf("迁移 %s 缺少 up 脚本", stem)
		}
	}
	sort.Strings(stems)
	return stems, nil
}

// RunMigrations 将数据库结构迁移到最新版本
// 上一次迁移中断留下的 dirty 标记会先复位到原版本再重试
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	stems, err := migrationStems()
	if err != nil {
		return fmt.Errorf("校验内嵌迁移失败: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if version, dirty, verr := m.Version(); verr == nil && dirty {
		logger.Warn("检测到 dirty 迁移状态，复位后重试", zap.Uint("version", version))
		if ferr := m.Force(int(version)); ferr != nil {
			return fmt.Errorf("复位 dirty 迁移状态失败: %w", ferr)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("数据库迁移完成",
		zap.Uint("version", version),
		zap.Int("total", len(stems)),
	)
	return nil
}

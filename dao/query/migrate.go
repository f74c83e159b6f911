package query

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/dao/model"
)

// Models lists every table the console reads or writes.
func Models() []any {
	return []any{
		&model.User{},
		&model.Service{},
		&model.HomeContent{},
		&model.HeroImage{},
		&model.HomeStat{},
		&model.HomeServicePreview{},
		&model.PortfolioCategory{},
		&model.PortfolioProject{},
		&model.TeamMember{},
		&model.Review{},
		&model.ReviewStat{},
		&model.Package{},
		&model.Order{},
		&model.Message{},
		&model.ContactInfo{},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202410160001-initial-schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(Models()...)
			},
			Rollback: func(tx *gorm.DB) error {
				models := Models()
				// drop in reverse so dependent tables go first
				for i := len(models) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(models[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			ID: "202410160002-message-unread-index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_read ON messages (read)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`DROP INDEX IF EXISTS idx_messages_read`).Error
			},
		},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		klog.Errorf("migration failed: %v", err)
		return err
	}
	klog.Info("migration did run successfully")
	return nil
}

// RollbackLast undoes the most recent migration.
func RollbackLast(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).RollbackLast()
}

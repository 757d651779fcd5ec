package migrations_test

import (
	"os"
	"path"
	"path/filepath"

	"github.com/dealerportal/partsfeed/internal/config"
	"github.com/dealerportal/partsfeed/internal/store"
	"github.com/dealerportal/partsfeed/pkg/migrations"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("migrations", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		cfg    *config.Config
	)

	BeforeAll(func() {
		dir, err := os.MkdirTemp("", "partsfeed-migrations-")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)

		cfg = config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = filepath.Join(dir, "partsfeed.db")

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
	})

	AfterAll(func() {
		s.Close()
	})

	Context("store migrations", Ordered, func() {
		It("fails to migrate the db -- migration folder does not exist", func() {
			cfg.Service.MigrationFolder = "some folder"
			err := migrations.MigrateStore(gormdb, cfg)
			Expect(err).NotTo(BeNil())
		})

		It("fails to migrate the db -- migration folder is a file", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			cfg.Service.MigrationFolder = path.Join(currentFolder, "migrations.go")

			err = migrations.MigrateStore(gormdb, cfg)
			Expect(err).NotTo(BeNil())
		})

		It("successfully migrates the db", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			cfg.Service.MigrationFolder = path.Join(currentFolder, "sql")

			err = migrations.MigrateStore(gormdb, cfg)
			Expect(err).To(BeNil())

			tableExists := func(name string) bool {
				count := 0
				tx := gormdb.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
				Expect(tx.Error).To(BeNil())
				return count == 1
			}

			for _, table := range []string{"batches", "staged_rows", "catalog_parts", "supersessions", "orders", "order_items", "order_line_statuses", "audit_logs"} {
				Expect(tableExists(table)).To(BeTrue(), table)
			}
		})

		It("is a no-op when run twice", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			cfg.Service.MigrationFolder = path.Join(currentFolder, "sql")

			Expect(migrations.MigrateStore(gormdb, cfg)).To(BeNil())
		})
	})
})

package main

import (
	"sales-management/internal/database"
	"sales-management/internal/repository"
	"sales-management/internal/seed"
	"sales-management/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories, products and users from a YAML fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()
		defer log.Sync()

		if err := database.RunMigrations(db.DB(), log); err != nil {
			return err
		}

		pool := db.DB()
		tx := repository.NewTxManager(pool)
		userRepo := repository.NewUserRepository(pool)
		categoryRepo := repository.NewCategoryRepository(pool)
		productRepo := repository.NewProductRepository(pool)
		saleRepo := repository.NewSaleRepository(pool)
		lineRepo := repository.NewSaleLineRepository(pool)

		seeder := seed.NewSeeder(
			service.NewCategoryService(categoryRepo, productRepo, tx),
			service.NewProductService(productRepo, categoryRepo, lineRepo, tx),
			service.NewUserService(userRepo, saleRepo, tx),
			log,
		)

		res, err := seeder.Apply(cmd.Context(), fixtures)
		if err != nil {
			log.Error("Seeding failed", zap.Error(err))
			return err
		}

		log.Info("Seeding completed",
			zap.String("file", seedFile),
			zap.Int("categories", res.CategoriesCreated),
			zap.Int("products", res.ProductsCreated),
			zap.Int("users", res.UsersCreated),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "fixtures/demo.yaml", "fixture file to load")
	rootCmd.AddCommand(seedCmd)
}

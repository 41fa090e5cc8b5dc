package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/ragcipe/backend/internal/app"
	"github.com/pageza/ragcipe/backend/internal/database"
	"github.com/pageza/ragcipe/backend/internal/model"
	"github.com/pageza/ragcipe/backend/internal/service"
)

func newIndexCmd() *cobra.Command {
	var (
		recipesFile   string
		productsFile  string
		migrate       bool
		migrationsDir string
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed recipes and store products from JSON files into the vector tables",
		Example: `  ragcipe index --recipes data/recipes.json --products data/products.json --migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if recipesFile == "" && productsFile == "" {
				return fmt.Errorf("at least one of --recipes or --products is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			cfg, stores, err := connect()
			if err != nil {
				return err
			}
			defer stores.Close()

			if migrate {
				if _, err := database.RunMigrations(stores.DB, migrationsDir); err != nil {
					return err
				}
			}

			embeddings, err := app.NewEmbeddingService(cfg)
			if err != nil {
				return err
			}
			indexer := service.NewCatalogIndexer(stores.DB, embeddings, workers)

			if recipesFile != "" {
				var recipes []model.Recipe
				if err := readJSON(recipesFile, &recipes); err != nil {
					return err
				}
				n, err := indexer.IndexRecipes(ctx, recipes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d recipes\n", n)
			}

			if productsFile != "" {
				var products []model.Product
				if err := readJSON(productsFile, &products); err != nil {
					return err
				}
				n, err := indexer.IndexProducts(ctx, products)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recipesFile, "recipes", "", "JSON array of recipes")
	cmd.Flags().StringVar(&productsFile, "products", "", "JSON array of store products")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	cmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "directory holding the SQL migrations")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent embedding requests")
	return cmd
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

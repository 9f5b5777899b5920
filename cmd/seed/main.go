package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/halildurmus/hotdeals-backend/config"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	"github.com/halildurmus/hotdeals-backend/internal/db"
	"github.com/halildurmus/hotdeals-backend/internal/seed"
	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <fixture.json> | --stores <stores.xlsx>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if os.Args[1] == "--stores" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: go run cmd/seed/main.go --stores <stores.xlsx>")
		}
		importStores(os.Args[2])
		return
	}

	loadFixture(cfg, os.Args[1])
}

func loadFixture(cfg *config.Config, filePath string) {
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())
	dealRepo := repository.NewDealRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())

	categoryService := service.NewCategoryService(categoryRepo)
	storeService := service.NewStoreService(storeRepo)
	userService := service.NewUserService(userRepo)
	dealService := service.NewDealService(dealRepo, userRepo, storeRepo, commentRepo, categoryService, cfg.Deal.LockTimeout)

	loader := seed.NewLoader(categoryService, storeService, userService, dealService)

	fmt.Printf("Loading fixture: %s\n", filePath)
	summary, err := loader.LoadFile(context.Background(), filePath)
	if err != nil {
		log.Fatal("Failed to load fixture: ", err)
	}

	fmt.Printf("Categories: %d created, %d skipped\n", summary.CategoriesCreated, summary.CategoriesSkipped)
	fmt.Printf("Stores:     %d created, %d skipped\n", summary.StoresCreated, summary.StoresSkipped)
	fmt.Printf("Users:      %d created, %d skipped\n", summary.UsersCreated, summary.UsersSkipped)
	fmt.Printf("Deals:      %d created\n", summary.DealsCreated)
	fmt.Println("Fixture loaded successfully!")
}

func importStores(filePath string) {
	storeRepo := repository.NewStoreRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	stores, err := readStoresFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total stores to import: %d\n", len(stores))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := storeRepo.BulkCreate(stores, batchSize); err != nil {
		log.Fatal("Failed to bulk create stores:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total stores imported: %d\n", len(stores))
}

// readStoresFromXLSX expects a header row followed by one store per row:
// column A is the name, column B an optional logo URL.
func readStoresFromXLSX(filePath string) ([]model.Store, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var stores []model.Store
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			// Header row
			continue
		}
		if len(row) == 0 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			skipped++
			continue
		}
		if seen[name] {
			fmt.Printf("Row %d: duplicate store %q, skipping\n", i+1, name)
			skipped++
			continue
		}
		seen[name] = true

		logo := ""
		if len(row) > 1 {
			logo = strings.TrimSpace(row[1])
		}

		stores = append(stores, model.Store{
			Name: name,
			Logo: logo,
		})
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d rows\n", skipped)
	}
	return stores, nil
}

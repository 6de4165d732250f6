package main

import (
	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// Seeding goes through the service-role DSN when one is configured, the
	// hosted DB blocks DDL on the regular role.
	dsn := cfg.Database.ServiceRoleDSN
	if dsn == "" {
		dsn = cfg.Database.DSN
	}
	db, err := models.OpenDB(cfg.Database.Driver, dsn)
	if err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Name: "Pizzas", Slug: "pizzas", SortOrder: 1},
		{Name: "Entradas", Slug: "entradas", SortOrder: 2},
		{Name: "Bebidas", Slug: "bebidas", SortOrder: 3},
		{Name: "Postres", Slug: "postres", SortOrder: 4},
	}
	for _, cat := range categories {
		var existing models.Category
		err := db.Where("slug = ?", cat.Slug).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&cat).Error; err != nil {
				stdLog.Printf("failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("created category: %s", cat.Slug)
			}
			continue
		}
		if err != nil {
			stdLog.Printf("failed to look up category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("category already exists: %s", cat.Slug)
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := db.Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	pizzaSizes := models.VariantList{
		{Name: "Personal", Price: models.NewMoneyFromFloat(6.50)},
		{Name: "Mediana", Price: models.NewMoneyFromFloat(10.00)},
		{Name: "Familiar", Price: models.NewMoneyFromFloat(14.50)},
	}

	products := []models.Product{
		{
			CategoryID:  categoryIDs["pizzas"],
			Name:        "Margarita",
			Slug:        "margarita",
			Description: "Salsa de tomate, mozzarella y albahaca fresca",
			Price:       models.NewMoneyFromFloat(6.50),
			Variants:    pizzaSizes,
			IsPopular:   true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["pizzas"],
			Name:        "Pepperoni",
			Slug:        "pepperoni",
			Description: "Doble pepperoni con mozzarella",
			Price:       models.NewMoneyFromFloat(7.50),
			Variants: models.VariantList{
				{Name: "Personal", Price: models.NewMoneyFromFloat(7.50)},
				{Name: "Mediana", Price: models.NewMoneyFromFloat(11.50)},
				{Name: "Familiar", Price: models.NewMoneyFromFloat(16.00)},
			},
			IsPopular: true,
			SortOrder: 2,
		},
		{
			CategoryID:  categoryIDs["pizzas"],
			Name:        "Diavola",
			Slug:        "diavola",
			Description: "Salami picante, mozzarella y aceite de ají",
			Price:       models.NewMoneyFromFloat(8.00),
			Variants:    pizzaSizes,
			IsSpicy:     true,
			SortOrder:   3,
		},
		{
			CategoryID:  categoryIDs["entradas"],
			Name:        "Pan de ajo",
			Slug:        "pan-de-ajo",
			Description: "Pan artesanal con mantequilla de ajo y parmesano",
			Price:       models.NewMoneyFromFloat(3.50),
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["bebidas"],
			Name:        "Refresco 1.5L",
			Slug:        "refresco-15l",
			Description: "Botella de 1.5 litros, varios sabores",
			Price:       models.NewMoneyFromFloat(2.50),
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["postres"],
			Name:        "Tiramisú",
			Slug:        "tiramisu",
			Description: "Receta clásica de la casa",
			Price:       models.NewMoneyFromFloat(4.00),
			SortOrder:   1,
		},
	}

	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("skipping product %s: category missing", product.Slug)
			continue
		}
		product.IsAvailable = true
		var existing models.Product
		err := db.Where("slug = ?", product.Slug).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				stdLog.Printf("failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("created product: %s", product.Slug)
			}
			continue
		}
		if err != nil {
			stdLog.Printf("failed to look up product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("product already exists: %s", product.Slug)
	}

	stdLog.Printf("seed finished")
}

// Package main provides a CLI tool for seeding the database with demo data
// for one owner.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/app"
	"bizdesk/internal/core/calendar"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/storage/postgres"
	"bizdesk/pkg/config"
	"bizdesk/pkg/logger"
)

const seedActor = "seed"

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	ownerID := id.New()
	if raw := os.Getenv("SEED_OWNER_ID"); raw != "" {
		if ownerID, err = id.Parse(raw); err != nil {
			log.Fatalw("invalid SEED_OWNER_ID", "error", err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid day boundary zone", "error", err)
	}
	svc := app.NewServices(app.PostgresRepositories(postgres.NewTxManager(pool)), app.Options{
		Policy:      inventory.PolicyClamp,
		Calendar:    calendar.In(loc),
		PhoneRegion: cfg.PhoneRegion,
	})

	if err := seedDemoData(ctx, svc, ownerID); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Infow("seeding completed successfully", "owner_id", ownerID)
}

type demoProduct struct {
	name     string
	category inventory.Category
	price    string
	stock    int64
	minStock int64
	supplied bool
}

var demoProducts = []demoProduct{
	{"Flour 25kg", inventory.CategoryRawMaterial, "18.90", 12, 4, true},
	{"Butter 1kg", inventory.CategoryRawMaterial, "9.40", 3, 5, true},
	{"Baguette", inventory.CategorySaleItem, "1.20", 60, 20, false},
	{"Croissant", inventory.CategorySaleItem, "1.50", 40, 15, false},
	{"Sourdough loaf", inventory.CategorySaleItem, "4.80", 0, 6, false},
}

func seedDemoData(ctx context.Context, svc *app.Services, ownerID id.ID) error {
	mill, err := svc.Suppliers.Create(ctx, ownerID, suppliers.Input{
		Name:          "Moulins de Paris",
		ContactPerson: "Jean Dupont",
		Email:         "orders@moulins.example.com",
		Phone:         "+33 1 42 00 00 00",
	})
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	products := make(map[string]*inventory.Product, len(demoProducts))
	for _, d := range demoProducts {
		in := inventory.CreateProductInput{
			Name:      d.name,
			Category:  d.category,
			UnitPrice: decimal.RequireFromString(d.price),
			Stock:     d.stock,
			MinStock:  d.minStock,
		}
		if d.supplied {
			in.SupplierRef = &mill.ID
		}
		p, err := svc.Inventory.CreateProduct(ctx, ownerID, in)
		if err != nil {
			return fmt.Errorf("create product %q: %w", d.name, err)
		}
		products[d.name] = p
	}
	logger.Info(ctx, "products seeded", "count", len(products))

	alice, err := svc.Customers.Create(ctx, ownerID, customers.Input{
		Name:  "Alice Martin",
		Email: "alice@example.com",
		Phone: "+33 6 12 34 56 78",
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	if _, err := svc.Customers.Create(ctx, ownerID, customers.Input{Name: "Café du Coin", Address: "3 rue Oberkampf"}); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	checkouts := []sales.CheckoutInput{
		{SaleInput: sales.SaleInput{
			CustomerID:    &alice.ID,
			Items:         []sales.ItemInput{line(products["Baguette"], 4), line(products["Croissant"], 6)},
			PaymentMethod: sales.PaymentCard,
			Status:        sales.StatusPaidDelivered,
		}, DeductStock: true},
		{SaleInput: sales.SaleInput{
			Items:         []sales.ItemInput{line(products["Baguette"], 2)},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		}, DeductStock: true},
		{SaleInput: sales.SaleInput{
			CustomerName:  "Café du Coin",
			Items:         []sales.ItemInput{line(products["Croissant"], 20)},
			PaymentMethod: sales.PaymentTransfer,
			Status:        sales.StatusDeliveredNotPaid,
		}, DeductStock: true},
	}
	for i := range checkouts {
		checkouts[i].ActorID = seedActor
		if _, err := svc.Sales.Checkout(ctx, ownerID, checkouts[i]); err != nil {
			return fmt.Errorf("checkout %d: %w", i+1, err)
		}
	}
	logger.Info(ctx, "sales seeded", "count", len(checkouts))

	paid, err := svc.Suppliers.RecordInvoice(ctx, ownerID, mill.ID, suppliers.InvoiceInput{
		Number: "MP-1041",
		Amount: decimal.RequireFromString("94.50"),
		Notes:  "Flour delivery",
	})
	if err != nil {
		return fmt.Errorf("record invoice: %w", err)
	}
	if _, err := svc.Suppliers.PayInvoice(ctx, ownerID, paid.ID, suppliers.PaymentInput{}); err != nil {
		return fmt.Errorf("pay invoice: %w", err)
	}
	if _, err := svc.Suppliers.RecordInvoice(ctx, ownerID, mill.ID, suppliers.InvoiceInput{
		Number: "MP-1057",
		Amount: decimal.RequireFromString("47.00"),
		Notes:  "Butter delivery",
	}); err != nil {
		return fmt.Errorf("record invoice: %w", err)
	}

	if _, err := svc.Journal.Create(ctx, ownerID, journal.Input{
		Title:    "New sourdough recipe",
		Content:  "Try a longer cold proof for the weekend loaves.",
		Mood:     journal.MoodGood,
		Category: journal.CategoryIdeas,
	}); err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}

	if _, err := svc.Production.CreatePlan(ctx, ownerID, production.PlanInput{
		ProductID: products["Sourdough loaf"].ID,
		Quantity:  24,
		DueDate:   time.Now().Add(24 * time.Hour),
		ActorID:   seedActor,
	}); err != nil {
		return fmt.Errorf("create production plan: %w", err)
	}

	return nil
}

func line(p *inventory.Product, qty int64) sales.ItemInput {
	return sales.ItemInput{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.UnitPrice,
	}
}

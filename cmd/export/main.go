package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront-service/internal/clover"
	"storefront-service/internal/config"
	"storefront-service/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// wineKeywords matches category names to wine products. Broader than the
// storefront classifier on purpose: the export sweeps up every varietal
// and regional category the merchant uses.
var wineKeywords = []string{
	"wine", "red wine", "white wine", "rosé", "rose", "sparkling",
	"dessert wine", "port", "sherry", "zinfandel", "cabernet", "merlot",
	"pinot", "chardonnay", "malbec", "sauvignon", "riesling", "moscato",
	"syrah", "shiraz", "bordeaux", "chianti", "tempranillo", "sangiovese",
	"grenache", "barolo", "barbaresco", "nebbiolo", "gewürztraminer",
	"chenin blanc", "viognier", "semillon", "grüner", "prosecco", "cava",
	"champagne", "lambrusco", "vermouth", "ice wine", "pet nat", "petillant",
	"frizzante", "vouvray", "beaujolais", "gamay", "carignan", "mourvedre",
	"petite sirah", "petit verdot", "cabernet franc", "albariño", "verdejo",
	"garnacha", "fiano", "falanghina", "gavi", "soave", "trebbiano", "verdicchio",
	"valpolicella", "amarone", "ripasso", "primitivo", "aglianico", "nero d’avola",
	"carmenere", "torrontes", "bonarda", "tannat", "pinotage", "viura", "macabeo",
	"godello", "loureiro", "arinto", "baga", "touriga", "trincadeira", "antao vaz",
	"moscatel", "muscat", "vinho verde", "txakoli", "txakolina", "malvasia", "picpoul",
	"marsanne", "roussanne", "claret", "clarete", "rosato", "rosado", "sparkling wine",
}

type wineProduct struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	Image         *string         `json:"image"`
	StockQuantity int             `json:"stockQuantity"`
	SKU           string          `json:"sku"`
	Available     bool            `json:"available"`
	Categories    []string        `json:"categories"`
	Tags          []string        `json:"tags"`
}

func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	if !cfg.CloverConfigured() {
		appLogger.Fatal("CLOVER_API_KEY and CLOVER_MERCHANT_ID are required")
	}

	client := clover.NewClient(clover.Options{
		BaseURL:    cfg.CloverBaseURL,
		APIKey:     cfg.CloverAPIKey,
		MerchantID: cfg.CloverMerchantID,
		PageSize:   cfg.UpstreamPageSize,
		PageDelay:  cfg.UpstreamPageDelay,
		Timeout:    cfg.UpstreamTimeout,
	}, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	appLogger.Info("Fetching Clover items, categories, and stocks...")

	var (
		items      []clover.Item
		categories []clover.Category
		stocks     []clover.ItemStock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = client.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = client.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stocks, err = client.ListItemStocks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		appLogger.Fatal("Export failed", zap.Error(err))
	}

	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = strings.ToLower(cat.Name)
	}
	stockQuantities := make(map[string]int, len(stocks))
	for _, stock := range stocks {
		if stock.Item.ID != "" {
			stockQuantities[stock.Item.ID] = int(stock.Quantity)
		}
	}

	// Filter and dedupe by item id, keeping first occurrence order.
	seen := make(map[string]bool)
	products := make([]wineProduct, 0)
	for _, item := range items {
		if !item.Available || seen[item.ID] {
			continue
		}
		if !isWineItem(item, categoryNames) {
			continue
		}
		seen[item.ID] = true
		products = append(products, exportRecord(item, categoryNames, stockQuantities))
	}

	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		appLogger.Fatal("Failed to create data directory", zap.Error(err))
	}
	outPath := filepath.Join(dataDir, "wine_inventory.json")

	payload, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to marshal wine inventory", zap.Error(err))
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		appLogger.Fatal("Failed to write wine inventory", zap.Error(err))
	}

	appLogger.Info("✅ Exported wine products",
		zap.Int("count", len(products)),
		zap.String("path", outPath),
	)
}

// isWineItem reports whether any of the item's categories matches a wine
// keyword. Items with no categories are never wine.
func isWineItem(item clover.Item, categoryNames map[string]string) bool {
	if item.Categories == nil {
		return false
	}
	for _, ref := range item.Categories.Elements {
		name := categoryNames[ref.ID]
		if name == "" {
			continue
		}
		for _, keyword := range wineKeywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}

func exportRecord(item clover.Item, categoryNames map[string]string, stockQuantities map[string]int) wineProduct {
	var cats []string
	if item.Categories != nil {
		for _, ref := range item.Categories.Elements {
			if name, ok := categoryNames[ref.ID]; ok {
				cats = append(cats, name)
			} else {
				cats = append(cats, ref.ID)
			}
		}
	}
	var tags []string
	if item.Tags != nil {
		for _, tag := range item.Tags.Elements {
			tags = append(tags, tag.Name)
		}
	}
	return wineProduct{
		ID:            item.ID,
		Name:          item.Name,
		Price:         decimal.NewFromInt(item.Price).Div(decimal.NewFromInt(100)),
		Description:   item.Description,
		Image:         item.Image,
		StockQuantity: stockQuantities[item.ID],
		SKU:           item.SKU,
		Available:     item.Available,
		Categories:    cats,
		Tags:          tags,
	}
}

package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"datalens/domain/table"
)

// RetailConfig configures the online retail sample generator
type RetailConfig struct {
	Rows                int       `json:"rows"`
	Seed                int64     `json:"seed"`
	MissingCustomerRate float64   `json:"missing_customer_rate"`
	CancelRate          float64   `json:"cancel_rate"`
	StartDate           time.Time `json:"start_date"`
	SpanDays            int       `json:"span_days"`
}

// DefaultRetailConfig returns the canonical sample dataset settings
func DefaultRetailConfig() RetailConfig {
	return RetailConfig{
		Rows:                5000,
		Seed:                42,
		MissingCustomerRate: 0.03,
		CancelRate:          0.02,
		StartDate:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		SpanDays:            365,
	}
}

// RetailGenerator produces a deterministic online-retail dataset shaped
// like a real invoice export: line items with categories, weighted
// country mix, a few cancelled orders (negative quantities) and a few
// missing customer IDs.
type RetailGenerator struct {
	config RetailConfig
	rng    *rand.Rand
}

// NewRetailGenerator creates a generator; the same seed always produces
// the same table.
func NewRetailGenerator(config RetailConfig) *RetailGenerator {
	return &RetailGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// categoryNames carries the catalog order; map iteration would break
// determinism.
var categoryNames = []string{"Electronics", "Home & Garden", "Clothing", "Books", "Toys"}

var productCatalog = map[string][]string{
	"Electronics":   {"Laptop", "Mouse", "Keyboard", "Monitor", "Headphones", "USB Cable", "Webcam"},
	"Home & Garden": {"Plant Pot", "Garden Tools", "Cushion", "Lamp", "Picture Frame", "Vase"},
	"Clothing":      {"T-Shirt", "Jeans", "Dress", "Jacket", "Sneakers", "Hat", "Scarf"},
	"Books":         {"Fiction Book", "Non-Fiction Book", "Magazine", "Comic Book", "Textbook"},
	"Toys":          {"Board Game", "Puzzle", "Action Figure", "Doll", "Building Blocks"},
}

var priceRanges = map[string][2]float64{
	"Electronics":   {15, 800},
	"Home & Garden": {5, 150},
	"Clothing":      {10, 200},
	"Books":         {8, 50},
	"Toys":          {10, 80},
}

var countryNames = []string{
	"United Kingdom", "Germany", "France", "Spain", "Netherlands",
	"Belgium", "Switzerland", "USA", "Australia",
}

var countryWeights = []float64{0.7, 0.08, 0.07, 0.05, 0.04, 0.02, 0.02, 0.01, 0.01}

var quantityChoices = []float64{1, 2, 3, 4, 5, 6, 10, 12, 20, 24}

var quantityWeights = []float64{0.3, 0.2, 0.15, 0.1, 0.08, 0.07, 0.05, 0.03, 0.01, 0.01}

type retailRow struct {
	invoiceNo   string
	stockCode   string
	description string
	quantity    float64
	invoiceDate time.Time
	unitPrice   float64
	customerID  float64
	hasCustomer bool
	country     string
	category    string
}

// Generate builds the sample table, sorted by invoice date ascending.
func (g *RetailGenerator) Generate() (*table.Table, error) {
	n := g.config.Rows
	rows := make([]retailRow, n)
	for i := range rows {
		category := categoryNames[g.rng.Intn(len(categoryNames))]
		products := productCatalog[category]
		prices := priceRanges[category]

		rows[i] = retailRow{
			invoiceNo:   fmt.Sprintf("INV%d", 100000+i),
			stockCode:   fmt.Sprintf("%s%d", strings.ToUpper(category[:3]), 1000+g.rng.Intn(9000)),
			description: products[g.rng.Intn(len(products))],
			quantity:    quantityChoices[weightedIndex(g.rng, quantityWeights)],
			invoiceDate: g.config.StartDate.AddDate(0, 0, g.rng.Intn(g.config.SpanDays)),
			unitPrice:   math.Round((prices[0]+g.rng.Float64()*(prices[1]-prices[0]))*100) / 100,
			customerID:  float64(10000 + g.rng.Intn(500)),
			hasCustomer: true,
			country:     countryNames[weightedIndex(g.rng, countryWeights)],
			category:    category,
		}
	}

	// Cancelled orders get negated quantities; a distinct slice of rows
	// loses its customer ID.
	for _, i := range g.pickDistinct(n, g.config.CancelRate) {
		rows[i].quantity = -rows[i].quantity
	}
	for _, i := range g.pickDistinct(n, g.config.MissingCustomerRate) {
		rows[i].hasCustomer = false
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].invoiceDate.Before(rows[j].invoiceDate)
	})

	cols := []table.Column{
		{Name: "InvoiceNo", Kind: table.KindCategorical},
		{Name: "StockCode", Kind: table.KindCategorical},
		{Name: "Description", Kind: table.KindCategorical},
		{Name: "Quantity", Kind: table.KindNumeric},
		{Name: "InvoiceDate", Kind: table.KindDatetime},
		{Name: "UnitPrice", Kind: table.KindNumeric},
		{Name: "CustomerID", Kind: table.KindNumeric},
		{Name: "Country", Kind: table.KindCategorical},
		{Name: "Category", Kind: table.KindCategorical},
	}
	for i := range cols {
		cols[i].Cells = make([]table.Cell, n)
	}
	for i, row := range rows {
		cols[0].Cells[i] = table.Text(row.invoiceNo)
		cols[1].Cells[i] = table.Text(row.stockCode)
		cols[2].Cells[i] = table.Text(row.description)
		cols[3].Cells[i] = table.Number(row.quantity)
		cols[4].Cells[i] = table.Time(row.invoiceDate)
		cols[5].Cells[i] = table.Number(row.unitPrice)
		if row.hasCustomer {
			cols[6].Cells[i] = table.Number(row.customerID)
		} else {
			cols[6].Cells[i] = table.Null()
		}
		cols[7].Cells[i] = table.Text(row.country)
		cols[8].Cells[i] = table.Text(row.category)
	}
	return table.New(cols...)
}

// WriteCSV renders the generated table to a CSV file.
func (g *RetailGenerator) WriteCSV(path string) error {
	t, err := g.Generate()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	return w.WriteAll(t.Records())
}

// pickDistinct returns share*n distinct row indices.
func (g *RetailGenerator) pickDistinct(n int, share float64) []int {
	count := int(float64(n) * share)
	if count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}
	return g.rng.Perm(n)[:count]
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

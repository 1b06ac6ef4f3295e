package insight

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

const notEnoughData = "❌ Not enough data to generate top performers."

// TopPerformers ranks category groups by their summed value column.
type TopPerformers struct{}

// NewTopPerformers creates the strategy.
func NewTopPerformers() *TopPerformers { return &TopPerformers{} }

func (*TopPerformers) Name() string { return "top_performers" }

func (*TopPerformers) Describe() string {
	return "Top 3 categories ranked by summed value"
}

// Generate groups the table by the category column and sums the value
// column per group. Without both a categorical and a numeric column it
// returns a fixed fragment rather than an error.
func (*TopPerformers) Generate(t *table.Table, opt ports.InsightOptions) (string, error) {
	if t == nil {
		return "", errors.NoData("no dataset loaded")
	}

	catName, valName := resolveColumns(t, opt)
	if catName == "" || valName == "" {
		return notEnoughData, nil
	}
	cat, _ := t.Column(catName)
	val, _ := t.Column(valName)

	sums := make(map[string]float64)
	order := make(map[string]int)
	groups := make([]string, 0)
	for i := range cat.Cells {
		if cat.Cells[i].IsNull() {
			continue
		}
		g := cat.Cells[i].String()
		if _, seen := sums[g]; !seen {
			order[g] = i
			groups = append(groups, g)
			sums[g] = 0
		}
		if v, ok := val.Cells[i].Float(); ok {
			sums[g] += v
		}
	}

	// Highest sum first; ties keep first-seen row order.
	sort.SliceStable(groups, func(i, j int) bool {
		if sums[groups[i]] != sums[groups[j]] {
			return sums[groups[i]] > sums[groups[j]]
		}
		return order[groups[i]] < order[groups[j]]
	})
	if len(groups) > 3 {
		groups = groups[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### 🏆 Top 3 %s by %s\n\n", catName, valName)
	for _, g := range groups {
		fmt.Fprintf(&b, "- **%s**: %s\n", g, humanizeFloat(sums[g]))
	}
	return b.String(), nil
}

// resolveColumns applies the auto-select rule: empty options mean the
// first categorical and first numeric column; a named column must exist
// with the right kind or the selection comes back empty.
func resolveColumns(t *table.Table, opt ports.InsightOptions) (string, string) {
	cat := opt.CategoryColumn
	if cat == "" {
		if names := t.CategoricalColumns(); len(names) > 0 {
			cat = names[0]
		}
	} else if col, ok := t.Column(cat); !ok || col.Kind != table.KindCategorical {
		cat = ""
	}

	val := opt.ValueColumn
	if val == "" {
		if names := t.NumericColumns(); len(names) > 0 {
			val = names[0]
		}
	} else if col, ok := t.Column(val); !ok || col.Kind != table.KindNumeric {
		val = ""
	}
	return cat, val
}

// humanizeFloat renders a float with thousands separators and two
// decimals: 1234567.5 becomes 1,234,567.50.
func humanizeFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteString(frac)
	return b.String()
}

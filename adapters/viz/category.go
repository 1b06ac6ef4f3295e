package viz

import (
	"fmt"
	"sort"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// CategoryGroup is one bar of a category chart.
type CategoryGroup struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CategoryData is the category chart payload.
type CategoryData struct {
	Category    string          `json:"category"`
	Value       string          `json:"value,omitempty"`
	Aggregation string          `json:"aggregation"`
	Groups      []CategoryGroup `json:"groups"`
}

// Chart implements ports.ChartData.
func (CategoryData) Chart() string { return "category" }

// Category aggregates rows per category label: plain value counts, or
// sum/mean of a numeric column grouped by category.
type Category struct{}

// NewCategory creates the selector.
func NewCategory() *Category { return &Category{} }

func (*Category) Name() string { return "category" }

func (*Category) Describe() string {
	return "Counts or grouped aggregates per category"
}

func (*Category) RequiredKinds() []table.Kind {
	return []table.Kind{table.KindCategorical}
}

func (*Category) CanRender(t *table.Table) bool {
	return t != nil && len(t.CategoricalColumns()) > 0
}

func (s *Category) Select(t *table.Table, opt ports.ChartOptions) (ports.ChartData, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	if !s.CanRender(t) {
		return nil, errors.NoData("category chart needs a categorical column")
	}

	catName, err := pickColumn(t, opt.XColumn, table.KindCategorical)
	if err != nil {
		return nil, err
	}
	cat, _ := t.Column(catName)

	agg := opt.Aggregation
	if agg == "" {
		agg = "count"
	}

	switch agg {
	case "count":
		return selectCounts(catName, cat), nil
	case "sum", "mean":
		valName, err := pickColumn(t, opt.YColumn, table.KindNumeric)
		if err != nil {
			return nil, err
		}
		val, _ := t.Column(valName)
		return selectGrouped(catName, cat, valName, val, agg), nil
	default:
		return nil, errors.UnsupportedInput(fmt.Sprintf("unknown aggregation %q (want count, sum or mean)", agg))
	}
}

// selectCounts orders labels by count descending, ties by first-seen
// row order.
func selectCounts(catName string, cat *table.Column) CategoryData {
	counts := make(map[string]int)
	order := make(map[string]int)
	labels := make([]string, 0)
	for i, cell := range cat.Cells {
		if cell.IsNull() {
			continue
		}
		label := cell.String()
		if _, seen := counts[label]; !seen {
			order[label] = i
			labels = append(labels, label)
		}
		counts[label]++
	}

	sort.SliceStable(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return order[labels[i]] < order[labels[j]]
	})

	groups := make([]CategoryGroup, len(labels))
	for i, label := range labels {
		groups[i] = CategoryGroup{Label: label, Value: float64(counts[label])}
	}
	return CategoryData{Category: catName, Aggregation: "count", Groups: groups}
}

// selectGrouped aggregates a numeric column per category label, ordered
// by label ascending. A label whose values are all null reports 0 for
// sum and is dropped for mean.
func selectGrouped(catName string, cat *table.Column, valName string, val *table.Column, agg string) CategoryData {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	labels := make([]string, 0)
	for i, cell := range cat.Cells {
		if cell.IsNull() {
			continue
		}
		label := cell.String()
		if _, seen := sums[label]; !seen {
			labels = append(labels, label)
			sums[label] = 0
		}
		if v, ok := val.Cells[i].Float(); ok {
			sums[label] += v
			counts[label]++
		}
	}
	sort.Strings(labels)

	groups := make([]CategoryGroup, 0, len(labels))
	for _, label := range labels {
		if agg == "mean" {
			if counts[label] == 0 {
				continue
			}
			groups = append(groups, CategoryGroup{Label: label, Value: sums[label] / float64(counts[label])})
			continue
		}
		groups = append(groups, CategoryGroup{Label: label, Value: sums[label]})
	}
	return CategoryData{Category: catName, Value: valName, Aggregation: agg, Groups: groups}
}

package collector

import (
	"sort"
	"strconv"

	"llamaworker/internal/formatter"
	"llamaworker/internal/models"
)

// SummaryTable renders the per-category counts of a run, then one row per collected DEX.
func SummaryTable(summary models.CollectionSummary) string {
	var rows [][]string

	for _, category := range models.AllCategories() {
		cs, ok := summary.Data[category.SummaryKey()]
		if !ok {
			continue
		}

		endpoint := "-"
		if cs.Source != nil {
			endpoint = cs.Source.Endpoint
		}

		rows = append(rows, []string{category.SummaryKey(), strconv.Itoa(cs.Count), endpoint, cs.DataType})
	}

	if dex, ok := summary.Data[models.SummaryKeyDex]; ok {
		slugs := make([]string, 0, len(dex.MajorDexs))
		for slug := range dex.MajorDexs {
			slugs = append(slugs, slug)
		}

		sort.Strings(slugs)

		for _, slug := range slugs {
			rows = append(rows, []string{"dex/" + slug, "-", slug, models.DexDetailsDescription})
		}
	}

	return formatter.Table([]string{"Data", "Count", "Endpoint", "Type"}, rows)
}

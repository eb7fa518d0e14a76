package catalog

import "github.com/shopchat/backend/internal/domain"

// Fields searched for free text, with boosts
var searchFields = []string{"name^3", "short_description^2", "description^2", "category_names", "tags"}

// hiddenVisibility lists catalog_visibility values excluded from results
var hiddenVisibility = []string{"hidden", "search"}

// buildSearchBody builds the bool query for a catalog query. Stock and
// visibility filters are always applied.
func buildSearchBody(q domain.CatalogQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"stock_status": string(domain.StockInStock)},
		},
	}

	if q.SearchText != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.SearchText,
				"fields": searchFields,
				"type":   "best_fields",
			},
		})
	}

	if len(q.CategorySlugs) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"category_slugs": q.CategorySlugs},
		})
	}

	if q.PriceRange != nil {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"price": map[string]interface{}{
					"gte": q.PriceRange.Min,
					"lte": q.PriceRange.Max,
				},
			},
		})
	}

	boolQuery := map[string]interface{}{
		"filter": filterClauses,
		"must_not": []interface{}{
			map[string]interface{}{
				"terms": map[string]interface{}{"catalog_visibility": hiddenVisibility},
			},
		},
	}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}

	return map[string]interface{}{
		"size":  q.Limit,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  sortClause(q.OrderBy),
	}
}

func sortClause(order domain.CatalogOrder) []interface{} {
	if order == domain.OrderPopularity {
		return []interface{}{
			map[string]interface{}{"total_sales": map[string]interface{}{"order": "desc"}},
			"_score",
		}
	}
	return []interface{}{
		"_score",
		map[string]interface{}{"total_sales": map[string]interface{}{"order": "desc"}},
	}
}

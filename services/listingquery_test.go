package services

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func stageNames(p []bson.D) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func findStage(t *testing.T, p []bson.D, name string) bson.D {
	t.Helper()
	for _, stage := range p {
		if stage[0].Key == name {
			return stage
		}
	}
	t.Fatalf("pipeline %v has no %s stage", stageNames(p), name)
	return nil
}

func TestPipelineEmptyQuery(t *testing.T) {
	p := ListingQuery{}.Pipeline()

	// No filters: normalization, sort, then the manager join only.
	want := []string{"$addFields", "$sort", "$lookup", "$unwind", "$addFields", "$project"}
	if got := stageNames(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stage order = %v, want %v", got, want)
	}
}

func TestPipelineTextSearchIsFirstStage(t *testing.T) {
	p := ListingQuery{Search: "sea view", Type: "rent"}.Pipeline()

	if p[0][0].Key != "$match" {
		t.Fatalf("first stage = %s, want $match", p[0][0].Key)
	}
	match := p[0][0].Value.(bson.M)
	text, ok := match["$text"].(bson.M)
	if !ok || text["$search"] != "sea view" {
		t.Fatalf("first stage is not the text search: %v", match)
	}
}

func TestPipelineAllSentinelDisablesFilters(t *testing.T) {
	p := ListingQuery{Type: FilterAll, City: FilterAll}.Pipeline()

	for _, stage := range p {
		if stage[0].Key != "$match" {
			continue
		}
		t.Fatalf("expected no $match stage for sentinel filters, got %v", stage[0].Value)
	}
}

func TestPipelineTypeCityAmenityFilters(t *testing.T) {
	q := ListingQuery{Type: "sell", City: "Casablanca", Amenities: []string{"wifi", "parking"}}
	stage := findStage(t, q.Pipeline(), "$match")

	match := stage[0].Value.(bson.M)
	if match["type"] != "sell" {
		t.Errorf("type filter = %v, want sell", match["type"])
	}
	if match["location.city"] != "Casablanca" {
		t.Errorf("city filter = %v, want Casablanca", match["location.city"])
	}
	all, ok := match["amenities"].(bson.M)
	if !ok || !reflect.DeepEqual(all["$all"], []string{"wifi", "parking"}) {
		t.Errorf("amenities filter = %v, want $all [wifi parking]", match["amenities"])
	}
}

func TestPipelinePriceNormalization(t *testing.T) {
	p := ListingQuery{}.Pipeline()
	stage := findStage(t, p, "$addFields")

	fields := stage[0].Value.(bson.M)
	normalized, ok := fields["normalizedDailyPrice"].(bson.M)
	if !ok {
		t.Fatalf("missing normalizedDailyPrice: %v", fields)
	}

	// daily if present, else monthly/30, else 0
	want := bson.M{"$ifNull": bson.A{
		bson.M{"$ifNull": bson.A{
			"$price.daily",
			bson.M{"$divide": bson.A{"$price.monthly", 30}},
		}},
		0,
	}}
	if !reflect.DeepEqual(normalized, want) {
		t.Fatalf("normalization expression = %v, want %v", normalized, want)
	}
}

func TestPipelinePriceRangeNeedsBothBounds(t *testing.T) {
	min, max := 50.0, 150.0

	hasPriceMatch := func(q ListingQuery) bool {
		for _, stage := range q.Pipeline() {
			if stage[0].Key != "$match" {
				continue
			}
			if _, ok := stage[0].Value.(bson.M)["normalizedDailyPrice"]; ok {
				return true
			}
		}
		return false
	}

	if hasPriceMatch(ListingQuery{PriceMin: &min}) {
		t.Error("min only: expected no price match stage")
	}
	if hasPriceMatch(ListingQuery{PriceMax: &max}) {
		t.Error("max only: expected no price match stage")
	}

	q := ListingQuery{PriceMin: &min, PriceMax: &max}
	if !hasPriceMatch(q) {
		t.Fatal("both bounds: expected a price match stage")
	}
	for _, stage := range q.Pipeline() {
		if stage[0].Key != "$match" {
			continue
		}
		bounds := stage[0].Value.(bson.M)["normalizedDailyPrice"].(bson.M)
		if bounds["$gte"] != 50.0 || bounds["$lte"] != 150.0 {
			t.Fatalf("price bounds = %v, want gte 50 lte 150", bounds)
		}
	}
}

func TestPipelineSort(t *testing.T) {
	tests := []struct {
		sortBy string
		want   bson.D
	}{
		{SortPriceLow, bson.D{{Key: "normalizedDailyPrice", Value: 1}}},
		{SortPriceHigh, bson.D{{Key: "normalizedDailyPrice", Value: -1}}},
		{SortNewest, bson.D{{Key: "createdAt", Value: -1}}},
		{"garbage", bson.D{{Key: "createdAt", Value: -1}}},
	}

	for _, tt := range tests {
		stage := findStage(t, ListingQuery{SortBy: tt.sortBy}.Pipeline(), "$sort")
		if got := stage[0].Value.(bson.D); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sortBy %q: sort = %v, want %v", tt.sortBy, got, tt.want)
		}
	}
}

func TestPipelineManagerJoin(t *testing.T) {
	p := ListingQuery{}.Pipeline()

	lookup := findStage(t, p, "$lookup")[0].Value.(bson.M)
	if lookup["from"] != "users" || lookup["localField"] != "manager" || lookup["as"] != "managerInfo" {
		t.Fatalf("unexpected lookup stage: %v", lookup)
	}

	unwind := findStage(t, p, "$unwind")[0].Value.(bson.M)
	if unwind["preserveNullAndEmptyArrays"] != true {
		t.Fatalf("unwind must preserve listings without a manager: %v", unwind)
	}

	project := findStage(t, p, "$project")[0].Value.(bson.M)
	if project["normalizedDailyPrice"] != 0 {
		t.Fatalf("normalizedDailyPrice must be projected out: %v", project)
	}
}

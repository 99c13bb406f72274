package statmath_test

import (
	"testing"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/statmath"
)

func game(date, opponent string, v models.StatVector) models.Game {
	return models.Game{Date: date, Opponent: opponent, Stats: v}
}

func TestBattingAverageTrend_Cumulative(t *testing.T) {
	games := statmath.Chronological([]models.Game{
		game("2024-05-03", "Lions", models.StatVector{AtBats: 3, Hits: 0}),
		game("2024-05-01", "Hawks", models.StatVector{AtBats: 4, Hits: 2}),
		game("2024-05-02", "Tigers", models.StatVector{AtBats: 2, Hits: 1}),
	})

	points := statmath.BattingAverageTrend(games)

	want := []struct {
		date string
		avg  float64
	}{
		{"2024-05-01", 0.5},
		{"2024-05-02", 0.5},
		{"2024-05-03", 0.333},
	}

	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i, w := range want {
		if points[i].Date != w.date || points[i].Avg != w.avg {
			t.Errorf("point %d = %+v, want date=%s avg=%v", i, points[i], w.date, w.avg)
		}
	}
}

func TestHomeRunTrend(t *testing.T) {
	points := statmath.HomeRunTrend([]models.Game{
		game("2024-05-01", "Hawks", models.StatVector{HomeRuns: 1}),
		game("2024-05-02", "Tigers", models.StatVector{}),
		game("2024-05-03", "Lions", models.StatVector{HomeRuns: 2}),
	})

	for i, want := range []int{1, 1, 3} {
		if points[i].HomeRuns != want {
			t.Errorf("point %d home runs = %d, want %d", i, points[i].HomeRuns, want)
		}
	}
}

func TestStrikeoutWalkRates(t *testing.T) {
	points := statmath.StrikeoutWalkRates([]models.Game{
		game("2024-05-01", "Hawks", models.StatVector{PlateAppearances: 3, Strikeouts: 1, Walks: 1}),
		game("2024-05-02", "Tigers", models.StatVector{}),
	})

	if points[0].KRate != 33.3 || points[0].BBRate != 33.3 {
		t.Errorf("first game rates = %+v, want 33.3/33.3", points[0])
	}
	if points[1].KRate != 0 || points[1].BBRate != 0 {
		t.Errorf("empty game rates = %+v, want 0/0", points[1])
	}
}

func TestHitDistribution_OmitsEmpty(t *testing.T) {
	dist := statmath.HitDistribution(models.StatVector{Singles: 5, HomeRuns: 2})

	if len(dist) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(dist))
	}
	if dist[0].Name != "Singles" || dist[1].Name != "Home Runs" {
		t.Errorf("unexpected slices: %+v", dist)
	}
}

func TestByOpponent(t *testing.T) {
	splits := statmath.ByOpponent([]models.Game{
		game("2024-05-01", "Hawks", models.StatVector{AtBats: 4, Hits: 2, HomeRuns: 1}),
		game("2024-05-02", "Tigers", models.StatVector{AtBats: 3}),
		game("2024-05-03", "Hawks", models.StatVector{AtBats: 4, Hits: 1}),
	})

	if len(splits) != 2 {
		t.Fatalf("expected 2 opponents, got %d", len(splits))
	}

	hawks := splits[0]
	if hawks.Opponent != "Hawks" || hawks.Games != 2 {
		t.Errorf("unexpected first split: %+v", hawks)
	}
	if hawks.Avg != 0.375 || hawks.HomeRuns != 1 {
		t.Errorf("Hawks avg=%v hr=%d, want 0.375/1", hawks.Avg, hawks.HomeRuns)
	}
	if hawks.Metrics.Display.BattingAverage != "0.375" {
		t.Errorf("Hawks display avg = %q", hawks.Metrics.Display.BattingAverage)
	}
	if splits[1].Avg != 0 {
		t.Errorf("Tigers avg = %v, want 0", splits[1].Avg)
	}
}

func TestCompare_Scales(t *testing.T) {
	a := models.StatVector{PlateAppearances: 5, AtBats: 4, Hits: 2, Singles: 1, Doubles: 1, Walks: 1}
	b := models.StatVector{}

	points := statmath.Compare(a, b)

	if len(points) != 6 {
		t.Fatalf("expected 6 metrics, got %d", len(points))
	}
	if points[0].Metric != "AVG" || points[0].Player1 != 500 || points[0].Player2 != 0 {
		t.Errorf("unexpected AVG point: %+v", points[0])
	}
	if points[5].Metric != "BB Rate" || points[5].Player1 != 20 {
		t.Errorf("unexpected BB Rate point: %+v", points[5])
	}
}

func TestInsights(t *testing.T) {
	p := &models.Player{Totals: models.StatVector{
		PlateAppearances: 20, AtBats: 16, Hits: 6, Singles: 3, Doubles: 1, HomeRuns: 2,
		Walks: 4, Strikeouts: 2, StolenBases: 12,
	}}

	kinds := map[string]bool{}
	for _, in := range statmath.Insights(p) {
		kinds[in.Kind] = true
	}

	for _, k := range []string{"average", "ops", "power", "discipline", "eye", "speed"} {
		if !kinds[k] {
			t.Errorf("expected %q insight", k)
		}
	}
}

func TestDateBefore_MixedLayouts(t *testing.T) {
	if !statmath.DateBefore("10/1/2024", "2024-10-02") {
		t.Error("expected 10/1/2024 before 2024-10-02")
	}
	if statmath.DateBefore("2024-10-03", "2024-10-02") {
		t.Error("expected 2024-10-03 not before 2024-10-02")
	}
}

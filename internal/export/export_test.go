package export_test

import (
	"strings"
	"testing"

	"github.com/PraneetTulluri/Stats-Tracker/internal/export"
	"github.com/PraneetTulluri/Stats-Tracker/internal/testutil"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

func mockPlayer() *models.Player {
	return &models.Player{
		ID:           "p1",
		Name:         "Jane  Marie Doe",
		JerseyNumber: "07",
		Position:     "Catcher",
		GamesPlayed:  1,
		Totals:       testutil.MockLine(),
	}
}

func lines(b []byte) []string {
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestFilenames(t *testing.T) {
	p := mockPlayer()

	if got := export.PlayerStatsFilename(p); got != "Jane_Marie_Doe_Stats.csv" {
		t.Errorf("PlayerStatsFilename() = %q", got)
	}
	if got := export.PlayerGameLogFilename(p); got != "Jane_Marie_Doe_Game_Log.csv" {
		t.Errorf("PlayerGameLogFilename() = %q", got)
	}
}

func TestPlayerStats(t *testing.T) {
	out, err := export.PlayerStats(mockPlayer())
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)

	want := map[int]string{
		0:  "Player Statistics Export",
		1:  "",
		2:  "Name,Jane  Marie Doe",
		3:  "Jersey Number,07",
		5:  "",
		6:  "Season Totals",
		7:  "Games Played,1",
		8:  "Plate Appearances,5",
		22: "Errors,0",
		23: "",
		24: "Advanced Metrics",
		25: "Batting Average,0.500",
		26: "On-Base Percentage,0.600",
		27: "Slugging Percentage,0.750",
		28: "OPS,1.350",
	}
	if len(got) != 29 {
		t.Fatalf("expected 29 lines, got %d:\n%s", len(got), out)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("line %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestAllPlayers(t *testing.T) {
	out, err := export.AllPlayers([]models.Player{*mockPlayer()})
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)

	if got[0] != "Name,Jersey,Position,GP,PA,AB,H,1B,2B,3B,HR,R,RBI,BB,HBP,SO,SB,CS,E,AVG,OBP,SLG,OPS" {
		t.Errorf("unexpected header: %q", got[0])
	}
	if got[1] != "Jane  Marie Doe,07,Catcher,1,5,4,2,1,1,0,0,1,2,1,0,1,0,0,0,0.500,0.600,0.750,1.350" {
		t.Errorf("unexpected row: %q", got[1])
	}
}

func TestPlayerGameLog_OldestFirst(t *testing.T) {
	p := mockPlayer()
	games := []models.Game{
		{PlayerID: "p1", Date: "2024-10-20", Opponent: "Hawks", Stats: testutil.MockLine()},
		{PlayerID: "other", Date: "2024-10-18", Opponent: "Bears"},
		{PlayerID: "p1", Date: "2024-10-05", Opponent: "Tigers", Stats: testutil.MockHomerLine()},
	}

	out, err := export.PlayerGameLog(p, games)
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)

	if got[0] != "Game Log - Jane  Marie Doe" || got[1] != "" {
		t.Errorf("unexpected title lines: %q", got[:2])
	}
	if got[2] != "Date,Opponent,PA,AB,H,1B,2B,3B,HR,R,RBI,BB,HBP,SO,SB,CS,E" {
		t.Errorf("unexpected header: %q", got[2])
	}
	if len(got) != 5 {
		t.Fatalf("expected 2 games, got %d lines", len(got))
	}
	if !strings.HasPrefix(got[3], "2024-10-05,Tigers,4,4,1") || !strings.HasPrefix(got[4], "2024-10-20,Hawks,") {
		t.Errorf("games not oldest first: %q", got[3:])
	}
}

func TestAllGames_UnknownPlayers(t *testing.T) {
	players := []models.Player{*mockPlayer()}
	games := []models.Game{
		{PlayerID: "p1", Date: "2024-10-05", Opponent: "Tigers"},
		{PlayerID: "gone", Date: "2024-10-20", Opponent: "Hawks"},
	}

	out, err := export.AllGames(players, games)
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)

	if got[0] != "Player Name,Jersey,Date,Opponent,PA,AB,H,1B,2B,3B,HR,R,RBI,BB,HBP,SO,SB,CS,E" {
		t.Errorf("unexpected header: %q", got[0])
	}
	if !strings.HasPrefix(got[1], "Unknown,N/A,2024-10-20,Hawks,") {
		t.Errorf("expected newest orphaned game first, got %q", got[1])
	}
	if !strings.HasPrefix(got[2], "Jane  Marie Doe,07,2024-10-05,Tigers,") {
		t.Errorf("unexpected second row: %q", got[2])
	}
}

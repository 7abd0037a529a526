package standing

import (
	"errors"
	"testing"
)

func row(teamID, name string, points, gd, gf int) Standing {
	return Standing{
		TeamID:         teamID,
		TeamName:       name,
		Points:         points,
		GoalDifference: gd,
		GoalsFor:       gf,
	}
}

func TestRanker_OrdersByPointsThenGoalDifferenceThenGoalsForThenName(t *testing.T) {
	t.Parallel()

	ranker := NewRanker(DefaultZoneConfig())
	rows := []Standing{
		row("t-che", "Chelsea", 70, 30, 72),
		row("t-ars", "Arsenal", 84, 40, 88),
		row("t-mci", "Manchester City", 84, 40, 88),
		row("t-liv", "Liverpool", 84, 45, 80),
		row("t-tot", "Tottenham Hotspur", 70, 30, 75),
	}

	got, err := ranker.Rank(rows)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}

	want := []string{"t-liv", "t-ars", "t-mci", "t-tot", "t-che"}
	for i, teamID := range want {
		if got[i].TeamID != teamID {
			t.Fatalf("position %d: want %s, got %s", i+1, teamID, got[i].TeamID)
		}
		if got[i].Position != i+1 {
			t.Fatalf("position field not set on %s: got %d", teamID, got[i].Position)
		}
	}
}

func TestRanker_InputOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	ranker := NewRanker(DefaultZoneConfig())
	rows := []Standing{
		row("t-a", "Aston Villa", 60, 10, 50),
		row("t-b", "Brentford", 45, -5, 40),
		row("t-c", "Crystal Palace", 45, -5, 40),
	}
	reversed := []Standing{rows[2], rows[1], rows[0]}

	first, err := ranker.Rank(rows)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	second, err := ranker.Rank(reversed)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].TeamID != second[i].TeamID {
			t.Fatalf("order differs at %d: %s vs %s", i, first[i].TeamID, second[i].TeamID)
		}
	}
}

func TestRanker_RankingIsIdempotent(t *testing.T) {
	t.Parallel()

	ranker := NewRanker(DefaultZoneConfig())
	rows := []Standing{
		row("t-a", "Arsenal", 80, 30, 70),
		row("t-b", "Bournemouth", 40, -10, 35),
		row("t-c", "Chelsea", 62, 12, 55),
	}

	once, err := ranker.Rank(rows)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	twice, err := ranker.Rank(once)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}

	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("re-ranking changed row %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestRanker_DuplicateTeam_StrictRejectsLenientKeepsLast(t *testing.T) {
	t.Parallel()

	rows := []Standing{
		row("t-a", "Arsenal", 10, 1, 5),
		row("t-a", "Arsenal", 13, 4, 9),
		row("t-b", "Burnley", 2, -8, 3),
	}

	strict := NewRanker(DefaultZoneConfig())
	strict.Strict = true
	if _, err := strict.Rank(rows); !errors.Is(err, ErrDuplicateTeam) {
		t.Fatalf("expected ErrDuplicateTeam, got %v", err)
	}

	lenient := NewRanker(DefaultZoneConfig())
	got, err := lenient.Rank(rows)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 rows, got %d", len(got))
	}
	if got[0].TeamID != "t-a" || got[0].Points != 13 {
		t.Fatalf("expected last duplicate row kept, got %+v", got[0])
	}
}

func TestRanker_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := NewRanker(DefaultZoneConfig()).Rank(nil)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d rows", len(got))
	}
}

func TestZoneConfig_Classify(t *testing.T) {
	t.Parallel()

	cfg := DefaultZoneConfig()
	cases := []struct {
		position int
		want     Zone
	}{
		{1, ZoneChampionsLeague},
		{4, ZoneChampionsLeague},
		{5, ZoneEuropaLeague},
		{6, ZoneNone},
		{17, ZoneNone},
		{18, ZoneRelegation},
		{20, ZoneRelegation},
		{0, ZoneNone},
	}
	for _, tc := range cases {
		if got := cfg.Classify(tc.position); got != tc.want {
			t.Fatalf("Classify(%d): want %s, got %s", tc.position, tc.want, got)
		}
	}
}

func TestZoneConfig_Classify_SmallLeague(t *testing.T) {
	t.Parallel()

	cfg := ZoneConfig{
		LeagueSize:           12,
		ChampionsLeagueSlots: 2,
		EuropaLeagueSlots:    1,
		RelegationSlots:      2,
	}

	if got := cfg.Classify(2); got != ZoneChampionsLeague {
		t.Fatalf("position 2: got %s", got)
	}
	if got := cfg.Classify(3); got != ZoneEuropaLeague {
		t.Fatalf("position 3: got %s", got)
	}
	if got := cfg.Classify(10); got != ZoneNone {
		t.Fatalf("position 10: got %s", got)
	}
	if got := cfg.Classify(11); got != ZoneRelegation {
		t.Fatalf("position 11: got %s", got)
	}
}

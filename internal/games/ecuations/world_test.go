package ecuations

import (
	"testing"

	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

func testMission() mission.Mission {
	return mission.Mission{
		ID:       "test",
		Title:    "Test mission",
		Equation: "dy/dt = ky",
		Steps: []mission.Step{
			{Step: 1, Title: "Model", Expression: "dy/dt = ky"},
			{Step: 2, Title: "Separate", Expression: "dy/y = k dt"},
			{Step: 3, Title: "Integrate", Expression: "ln|y| = kt + C"},
		},
	}
}

func newTestWorld(m mission.Mission) (*WorldState, Rules) {
	cfg := config.DefaultEcuationsConfig()
	return BuildWorld(m, cfg), NewRules(cfg)
}

func TestBuildWorldBonusCoins(t *testing.T) {
	m := testMission()
	m.Platforms = []mission.Platform{{ID: 7, X: 350, Y: 400, Width: 80, Height: 20}}
	w, _ := newTestWorld(m)

	if len(w.Collectibles) != 4 {
		t.Fatalf("collectibles = %d, want 4 (1 platform coin + 3 ground coins)", len(w.Collectibles))
	}

	tests := []struct {
		id   string
		x, y float64
	}{
		{"test-coin-platform-7", 350 + 40 - 24, 400 - 48 - 12},
		{"test-coin-bonus-1", 500 - 24, 500 - 48 - 40},
		{"test-coin-bonus-2", 1000 - 24, 500 - 48 - 70},
		{"test-coin-bonus-3", 1500 - 24, 500 - 48 - 50},
	}
	for i, tt := range tests {
		c := w.Collectibles[i]
		if c.ID != tt.id {
			t.Errorf("collectible %d id = %q, want %q", i, c.ID, tt.id)
		}
		if c.X != tt.x || c.Y != tt.y {
			t.Errorf("%s at (%v,%v), want (%v,%v)", c.ID, c.X, c.Y, tt.x, tt.y)
		}
		if c.Type != mission.TypeCoin || c.Value != 5 || c.Size != 48 {
			t.Errorf("%s = %+v, want coin worth 5 of size 48", c.ID, c)
		}
	}
}

func TestBuildWorldAlignsEnemies(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{
		{ID: 1, X: 400, Y: 480, Type: "spike"},
		{ID: 2, X: 800, Y: 100, Type: "moving", Speed: 0.5},
		{ID: 3, X: 900, Type: "ghost"},
	}
	w, _ := newTestWorld(m)

	tests := []struct {
		wantY     float64
		wantWidth float64
	}{
		{512 - 118 + 46, 118},
		{512 - 132 + 50, 132},
		{512 - 118 + 46, 118}, // unknown type uses default metrics
	}
	for i, tt := range tests {
		e := w.Enemies[i]
		if e.Y != tt.wantY {
			t.Errorf("enemy %d y = %v, want %v", e.ID, e.Y, tt.wantY)
		}
		if e.Metrics.Width != tt.wantWidth {
			t.Errorf("enemy %d width = %v, want %v", e.ID, e.Metrics.Width, tt.wantWidth)
		}
		if e.Box().Bottom() != 512 {
			t.Errorf("enemy %d hitbox bottom = %v, want the ground baseline", e.ID, e.Box().Bottom())
		}
	}
}

func TestBuildWorldInitialState(t *testing.T) {
	w, _ := newTestWorld(testMission())

	if w.State.Lives != 3 {
		t.Errorf("lives = %d, want 3", w.State.Lives)
	}
	if w.State.Coins != 0 || w.State.Treasures != 0 || w.State.EquationsSolved != 0 {
		t.Errorf("counters not zero: %+v", w.State)
	}
	c := w.Character
	if c.X != 100 || c.Y != 512 || c.Direction != 1 || !c.Grounded {
		t.Errorf("character = %+v, want grounded at (100,512) facing right", c)
	}
	if w.Frozen() {
		t.Error("new world should not be frozen")
	}
}

func TestCameraNeverNegative(t *testing.T) {
	w, _ := newTestWorld(testMission())

	for _, x := range []float64{0, 100, 400, 401, 1872} {
		w.Character.X = x
		got := w.Camera(400)
		want := max(0, x-400)
		if got != want {
			t.Errorf("Camera at x=%v = %v, want %v", x, got, want)
		}
	}
}

func TestPickupIsIdempotent(t *testing.T) {
	m := testMission()
	m.Collectibles = []mission.Collectible{{ID: 1, X: 150, Y: 450, Type: mission.TypeCoin, Value: 5}}
	w, r := newTestWorld(m)

	picked := r.ResolvePickups(w)
	if len(picked) != 1 {
		t.Fatalf("first pass picked %d items, want 1", len(picked))
	}
	if w.State.Coins != 5 {
		t.Fatalf("coins = %d, want 5", w.State.Coins)
	}

	for range 3 {
		if picked := r.ResolvePickups(w); len(picked) != 0 {
			t.Fatalf("picked %d items again at the same position", len(picked))
		}
	}
	if w.State.Coins != 5 {
		t.Errorf("coins = %d after re-entering the spot, want 5", w.State.Coins)
	}
}

func TestPickupEffects(t *testing.T) {
	tests := []struct {
		name  string
		item  mission.Collectible
		setup func(*WorldState)
		check func(*testing.T, *WorldState)
	}{
		{
			name: "coin without value counts one",
			item: mission.Collectible{Type: mission.TypeCoin},
			check: func(t *testing.T, w *WorldState) {
				if w.State.Coins != 1 {
					t.Errorf("coins = %d, want 1", w.State.Coins)
				}
			},
		},
		{
			name: "special advances the step",
			item: mission.Collectible{Type: mission.TypeSpecial, Symbol: "∫", Value: 50},
			check: func(t *testing.T, w *WorldState) {
				st := w.State
				if st.Treasures != 1 || st.EquationsSolved != 1 || st.CurrentStep != 1 {
					t.Errorf("state = %+v, want treasures=1 equations=1 step=1", st)
				}
				if st.Coins != 0 {
					t.Errorf("special must not add coins, got %d", st.Coins)
				}
			},
		},
		{
			name:  "special step is capped at the last step",
			item:  mission.Collectible{Type: mission.TypeSpecial},
			setup: func(w *WorldState) { w.State.CurrentStep = 2 },
			check: func(t *testing.T, w *WorldState) {
				if w.State.CurrentStep != 2 {
					t.Errorf("step = %d, want 2", w.State.CurrentStep)
				}
			},
		},
		{
			name:  "ammo is capped",
			item:  mission.Collectible{Type: mission.TypeAmmo, Value: 20},
			setup: func(w *WorldState) { w.State.Ammo = 50 },
			check: func(t *testing.T, w *WorldState) {
				if w.State.Ammo != 60 {
					t.Errorf("ammo = %d, want 60", w.State.Ammo)
				}
			},
		},
		{
			name: "ammo without value uses the default pickup",
			item: mission.Collectible{Type: mission.TypeAmmo},
			check: func(t *testing.T, w *WorldState) {
				if w.State.Ammo != 16 {
					t.Errorf("ammo = %d, want 16", w.State.Ammo)
				}
			},
		},
		{
			name: "fruit is only logged",
			item: mission.Collectible{Type: mission.TypeFruit, Symbol: "dy", Value: 10},
			check: func(t *testing.T, w *WorldState) {
				if w.State.Coins != 0 || w.State.Treasures != 0 {
					t.Errorf("fruit changed resources: %+v", w.State)
				}
				if len(w.Collected) != 1 || w.Collected[0] != "dy" {
					t.Errorf("collected log = %v, want [dy]", w.Collected)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMission()
			tt.item.ID = 1
			tt.item.X, tt.item.Y = 150, 450
			m.Collectibles = []mission.Collectible{tt.item}
			w, r := newTestWorld(m)
			if tt.setup != nil {
				tt.setup(w)
			}
			if picked := r.ResolvePickups(w); len(picked) != 1 {
				t.Fatalf("picked %d items, want 1", len(picked))
			}
			tt.check(t, w)
		})
	}
}

func TestCollectedLogIsBounded(t *testing.T) {
	m := testMission()
	for i := range 10 {
		m.Collectibles = append(m.Collectibles, mission.Collectible{
			ID: i + 1, X: 110 + float64(i), Y: 450, Type: mission.TypeFruit, Symbol: string(rune('a' + i)),
		})
	}
	w, r := newTestWorld(m)

	r.ResolvePickups(w)

	if len(w.Collected) != 8 {
		t.Fatalf("log length = %d, want 8", len(w.Collected))
	}
	if w.Collected[0] != "j" {
		t.Errorf("newest entry = %q, want %q", w.Collected[0], "j")
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		c    Collectible
		want string
	}{
		{Collectible{Symbol: "dx", Type: mission.TypeFruit}, "dx"},
		{Collectible{Type: mission.TypeCoin}, "$"},
		{Collectible{Type: mission.TypePearl}, "pearl"},
		{Collectible{}, "?"},
	}
	for _, tt := range tests {
		if got := tt.c.Label(); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestDamageBlockedWhileVanishing(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(w *WorldState)
		wantHit   bool
		wantLives int
	}{
		{
			name: "live explosion",
			setup: func(w *WorldState) {
				w.Explosions = []Explosion{{ID: 99, EnemyID: 2}}
			},
			wantLives: 3,
		},
		{
			name: "dying enemy",
			setup: func(w *WorldState) {
				dying := w.Enemies[0]
				dying.ID = 2
				dying.X = 1500
				dying.Life = EnemyDying
				w.Enemies = append(w.Enemies, dying)
			},
			wantLives: 3,
		},
		{
			name: "explosion expired",
			setup: func(w *WorldState) {
				w.Explosions = []Explosion{{ID: 99, EnemyID: 2}}
				w.RemoveExplosion(99)
			},
			wantHit:   true,
			wantLives: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld(spikeMission())
			tt.setup(w)

			if got := r.ResolveDamage(w); got != tt.wantHit {
				t.Errorf("ResolveDamage = %v, want %v", got, tt.wantHit)
			}
			if w.State.Lives != tt.wantLives {
				t.Errorf("lives = %d, want %d", w.State.Lives, tt.wantLives)
			}
		})
	}
}

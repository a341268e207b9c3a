package ecuations

import (
	"testing"
	"time"

	"github.com/vovakirdan/ecuations-d/internal/mission"
)

func TestMuzzle(t *testing.T) {
	_, r := newTestWorld(testMission())

	tests := []struct {
		name    string
		c       Character
		wantX   float64
		wantDir int
	}{
		// tip at 98+100 = 198 is clamped to the footprint x+128+4
		{"facing right", Character{X: 100, Y: 512, Direction: 1}, 232, 1},
		// tip mirrored to 128-198 = -70, advanced to -76, clamped to x-4
		{"facing left", Character{X: 100, Y: 512, Direction: -1}, 96, -1},
		{"velocity beats facing", Character{X: 100, Y: 512, VX: -5, Direction: 1}, 96, -1},
		{"no facing defaults right", Character{X: 100, Y: 512}, 232, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, dir := r.Muzzle(tt.c)
			if x != tt.wantX || dir != tt.wantDir {
				t.Errorf("muzzle x=%v dir=%d, want x=%v dir=%d", x, dir, tt.wantX, tt.wantDir)
			}
			if want := 512.0 - 160 + 60 + 39; y != want {
				t.Errorf("muzzle y = %v, want %v", y, want)
			}
		})
	}
}

func TestFireCooldown(t *testing.T) {
	w, r := newTestWorld(testMission())

	if !r.Fire(w, 0) {
		t.Fatal("first shot was dropped")
	}
	if r.Fire(w, 100*time.Millisecond) {
		t.Error("shot 100ms later should be dropped by the 500ms cooldown")
	}
	if r.Fire(w, 499*time.Millisecond) {
		t.Error("shot at 499ms should be dropped")
	}
	if !r.Fire(w, 500*time.Millisecond) {
		t.Error("shot at 500ms should fire")
	}
	if len(w.Bullets) != 2 {
		t.Errorf("bullets = %d, want 2", len(w.Bullets))
	}
	for _, b := range w.Bullets {
		if b.VX != 8 || b.VY != 0 {
			t.Errorf("bullet velocity = (%v,%v), want (8,0)", b.VX, b.VY)
		}
	}
}

func TestFireConsumesAmmoWhenEnabled(t *testing.T) {
	m := testMission()
	w, r := newTestWorld(m)

	if !r.Fire(w, 0) || w.State.Ammo != 10 {
		t.Fatalf("default weapon should not spend ammo, ammo = %d", w.State.Ammo)
	}

	cfg := r.Config()
	cfg.Weapon.ConsumeAmmo = true
	w = BuildWorld(m, cfg)
	r = NewRules(cfg)
	w.State.Ammo = 1

	if !r.Fire(w, 0) {
		t.Fatal("shot with one round left was dropped")
	}
	if w.State.Ammo != 0 {
		t.Errorf("ammo = %d, want 0", w.State.Ammo)
	}
	if r.Fire(w, time.Second) {
		t.Error("fired with an empty magazine")
	}
}

func TestBulletsLeaveTheWorld(t *testing.T) {
	w, r := newTestWorld(testMission())
	w.Bullets = []Bullet{
		{ID: 1, X: 1995, Y: 300, VX: 8},
		{ID: 2, X: 5, Y: 300, VX: -8},
		{ID: 3, X: 1000, Y: 300, VX: 8},
	}

	r.StepProjectiles(w)

	if len(w.Bullets) != 1 || w.Bullets[0].ID != 3 {
		t.Fatalf("bullets = %+v, want only id 3", w.Bullets)
	}
	if w.Bullets[0].X != 1008 {
		t.Errorf("bullet x = %v, want 1008", w.Bullets[0].X)
	}
}

func TestBulletHitUsesTolerance(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{{ID: 1, X: 600, Type: "spike"}}
	w, r := newTestWorld(m)
	// next x = 594 = left edge - 6
	w.Bullets = []Bullet{{ID: 1, X: 586, Y: 451, VX: 8}}

	explosions := r.StepProjectiles(w)

	if len(explosions) != 1 {
		t.Fatalf("explosions = %d, want 1", len(explosions))
	}
	e := explosions[0]
	if e.X != 659 || e.Y != 453 || e.Size != 118 {
		t.Errorf("explosion = %+v, want centered at (659,453) size 118", e)
	}
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Errorf("enemy or bullet survived: enemies=%d bullets=%d", len(w.Enemies), len(w.Bullets))
	}
	if w.State.EquationsSolved != 1 {
		t.Errorf("equations solved = %d, want 1", w.State.EquationsSolved)
	}
}

func TestOneEnemyCountsOncePerTick(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{
		{ID: 1, X: 600, Type: "spike"},
		{ID: 2, X: 1200, Type: "spike"},
	}
	w, r := newTestWorld(m)
	w.Bullets = []Bullet{
		{ID: 1, X: 620, Y: 451, VX: 8},
		{ID: 2, X: 630, Y: 451, VX: 8},
		{ID: 3, X: 1220, Y: 451, VX: 8},
	}

	explosions := r.StepProjectiles(w)

	if len(explosions) != 2 {
		t.Errorf("explosions = %d, want 2", len(explosions))
	}
	if w.State.EquationsSolved != 2 {
		t.Errorf("equations solved = %d, want 2 (one per distinct enemy)", w.State.EquationsSolved)
	}
	// The second bullet found its enemy already dying and keeps flying.
	if len(w.Bullets) != 1 || w.Bullets[0].ID != 2 {
		t.Errorf("bullets = %+v, want only id 2", w.Bullets)
	}
	if len(w.Enemies) != 0 {
		t.Errorf("enemies = %d, want 0", len(w.Enemies))
	}
}

func TestStepEnemiesPatrol(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{
		{ID: 1, X: 1949, Type: "moving", Speed: 1.5},
		{ID: 2, X: 0.2, Type: "moving", Speed: -0.5},
		{ID: 3, X: 700, Type: "spike", Speed: 3},
	}
	w, r := newTestWorld(m)

	r.StepEnemies(w)

	if e := w.Enemies[0]; e.X != 1949 || e.Speed != -1.5 {
		t.Errorf("enemy at right bound = %+v, want reversed in place", e)
	}
	if e := w.Enemies[1]; e.X != 0.2 || e.Speed != 0.5 {
		t.Errorf("enemy at left bound = %+v, want reversed in place", e)
	}
	if e := w.Enemies[2]; e.X != 700 {
		t.Errorf("spike moved to %v", e.X)
	}

	r.StepEnemies(w)
	if e := w.Enemies[0]; e.X != 1947.5 {
		t.Errorf("enemy x after reversal = %v, want 1947.5", e.X)
	}
}

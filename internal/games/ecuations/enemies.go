package ecuations

// Enemy types with dedicated behavior. Other types are stationary.
const (
	EnemySpike  = "spike"
	EnemyMoving = "moving"
)

// StepEnemies advances patrol enemies one tick. A moving enemy whose next
// position would leave [0, world width - patrol margin] reverses instead
// of moving.
func (r Rules) StepEnemies(w *WorldState) {
	if w.Frozen() {
		return
	}
	limit := r.cfg.World.Width - r.cfg.Enemies.PatrolMargin
	for i := range w.Enemies {
		e := &w.Enemies[i]
		if e.Type != EnemyMoving || e.Life != EnemyAlive {
			continue
		}
		nx := e.X + e.Speed
		if nx > limit || nx < 0 {
			e.Speed = -e.Speed
			continue
		}
		e.X = nx
	}
}

package mission

import "time"

// Summary is the numeric outcome of a completed mission. It is produced once
// per session when the player acknowledges the finish prompt.
type Summary struct {
	SessionID       string    `json:"session_id"`
	MissionID       string    `json:"mission_id"`
	Timestamp       time.Time `json:"timestamp"`
	Coins           int       `json:"coins"`
	Lives           int       `json:"lives"`
	Ammo            int       `json:"ammo"`
	Treasures       int       `json:"treasures"`
	EquationsSolved int       `json:"equations_solved"`
}

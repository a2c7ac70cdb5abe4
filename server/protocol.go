package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin        = "join"
	MsgLeave       = "leave"
	MsgInput       = "input"
	MsgCreate      = "create"  // create session
	MsgList        = "list"    // list sessions
	MsgCheck       = "check"   // check if session exists
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth" // resume with a stored token
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
)

// Server -> Client message types
const (
	MsgState       = "state"
	MsgWelcome     = "welcome"
	MsgDeath       = "death"
	MsgKill        = "kill"
	MsgWave        = "wave"
	MsgSessions    = "sessions"
	MsgJoined      = "joined"
	MsgCreated     = "created" // session created, client should navigate
	MsgError       = "error"
	MsgChecked     = "checked" // session check response
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgBoard       = "board"
	MsgObstacles   = "obstacles" // static layout, sent once on join
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the client at 20Hz
type ClientInput struct {
	DX   float64 `json:"dx"`   // movement direction X, -1..1
	DY   float64 `json:"dy"`   // movement direction Y, -1..1
	MX   float64 `json:"mx"`   // aim point X (world coords)
	MY   float64 `json:"my"`   // aim point Y (world coords)
	Fire bool    `json:"fire"` // fire held
}

// JoinMsg is sent when player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
	Weapon    int    `json:"w"`
}

// CreateMsg is sent when player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
	Region      string `json:"region,omitempty"`
}

// PlayerState is broadcast per player each snapshot
type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"n" msgpack:"n"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"` // aim radians
	HP     int     `json:"hp" msgpack:"hp"`
	MaxHP  int     `json:"mhp" msgpack:"mhp"`
	Weapon int     `json:"w" msgpack:"w"`
	Kills  int     `json:"k" msgpack:"k"`
	Alive  bool    `json:"a" msgpack:"a"`
	Immune bool    `json:"im,omitempty" msgpack:"im,omitempty"`
	Slid   bool    `json:"sd,omitempty" msgpack:"sd,omitempty"` // pressed against a wall
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID      string  `json:"id" msgpack:"id"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	Owner   string  `json:"o" msgpack:"o"`
	Hostile bool    `json:"h,omitempty" msgpack:"h,omitempty"`
	Crit    bool    `json:"c,omitempty" msgpack:"c,omitempty"`
}

// EnemyState is broadcast per enemy
type EnemyState struct {
	ID    string  `json:"id" msgpack:"id"`
	Kind  int     `json:"k" msgpack:"k"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	R     float64 `json:"r" msgpack:"r"`
	HP    int     `json:"hp" msgpack:"hp"`
	MaxHP int     `json:"mhp" msgpack:"mhp"`
	Slide string  `json:"sl,omitempty" msgpack:"sl,omitempty"`
}

// GameState is the full state broadcast, sent as msgpack binary
type GameState struct {
	Players     []PlayerState     `json:"p" msgpack:"p"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Enemies     []EnemyState      `json:"e" msgpack:"e"`
	Wave        int               `json:"wv" msgpack:"wv"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
}

// ObstacleState describes one static obstacle
type ObstacleState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HalfW float64 `json:"hw"`
	HalfH float64 `json:"hh"`
	Kind  string  `json:"k"`
}

// ObstaclesMsg carries the session's region layout
type ObstaclesMsg struct {
	Region    string          `json:"region"`
	WorldSize float64         `json:"size"`
	Obstacles []ObstacleState `json:"obs"`
}

// GridInfo is the obstacle grid of a session as seen by pathfinding. Each
// row is one string, '#' for a blocked cell and '.' for an open one.
type GridInfo struct {
	Cols     int      `json:"cols"`
	Rows     int      `json:"rows"`
	CellSize float64  `json:"cell"`
	Blocked  int      `json:"blocked"`
	Cells    []string `json:"cells"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID     string `json:"id"`
	Weapon int    `json:"w"`
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID   string  `json:"kid"`
	KillerKind string  `json:"kk"`
	Respawn    float64 `json:"rs"`
}

// KillMsg is broadcast when a player kills an enemy
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	EnemyID    string `json:"eid"`
	EnemyKind  string `json:"ek"`
}

// WaveMsg announces a new wave
type WaveMsg struct {
	Wave    int `json:"wave"`
	Enemies int `json:"n"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Region  string `json:"region"`
	Players int    `json:"players"`
	Wave    int    `json:"wave"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with a password
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg carries lifetime stats
type ProfileDataMsg struct {
	Username string  `json:"username"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Runs     int     `json:"runs"`
	BestWave int     `json:"best_wave"`
	Playtime float64 `json:"playtime"`
}

// LeaderboardMsg requests the leaderboard
type LeaderboardMsg struct {
	By    string `json:"by"`
	Limit int    `json:"limit"`
}

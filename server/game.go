package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"torus-survival/internal/logger"
	"torus-survival/sim"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxProjectilesPerSession = 600
	maxPlayersPerSession     = 8
	maxEnemiesPerSession     = 120

	WaveBaseEnemies  = 4
	WaveExtraEnemies = 2     // per wave number
	WaveBreak        = 2.0   // seconds between a cleared wave and the next
	SpawnMinDistance = 400.0 // enemies never spawn closer than this to a player
	spawnAttempts    = 64
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
}

// binarySender is implemented by clients that take msgpack snapshots
type binarySender interface {
	SendBinary(data []byte)
}

// Game holds the state for one game session
type Game struct {
	mu          sync.RWMutex
	id          string
	region      *Region
	world       sim.World
	obstacles   []sim.Obstacle
	grid        *sim.ObstacleGrid
	paths       *sim.Pathfinder
	resolver    sim.Resolver
	slider      sim.WallSlider
	combat      sim.Combat
	spatial     *SpatialGrid
	players     map[string]*Player
	enemies     []*Enemy
	projectiles []*sim.Projectile
	clients     map[string]Broadcaster // playerID -> client
	tick        uint64
	wave        int
	waveBreak   float64
	running     bool
	stop        chan struct{}
	analytics   *Analytics
	log         *logrus.Entry

	// per-tick scratch
	refBuf  []EntityRef
	bodies  []sim.Body
	candBuf []sim.Body
	idxBuf  []int
}

// NewGame creates a game on the given region. A nil region generates the
// default layout.
func NewGame(id string, region *Region, analytics *Analytics) *Game {
	if region == nil {
		region = GenerateRegion("default", 1, DefaultWorldSize)
	}
	world := region.World()
	grid := sim.NewObstacleGrid(world)
	grid.Rebuild(region.Obstacles, 0)
	return &Game{
		id:          id,
		region:      region,
		world:       world,
		obstacles:   region.Obstacles,
		grid:        grid,
		paths:       sim.NewPathfinder(grid),
		resolver:    sim.NewResolver(world),
		slider:      sim.NewWallSlider(world),
		combat:      sim.Combat{World: world},
		spatial:     NewSpatialGrid(world.Size),
		players:     make(map[string]*Player),
		clients:     make(map[string]Broadcaster),
		stop:        make(chan struct{}),
		waveBreak:   WaveBreak,
		analytics:   analytics,
		log:         logger.Session(id),
	}
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// Region returns the obstacle layout the game runs on
func (g *Game) Region() *Region {
	return g.region
}

// AddPlayer adds a new player at a free position. Returns nil when full.
func (g *Game) AddPlayer(name string, weapon WeaponClass) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil
	}
	if weapon < 0 || int(weapon) >= len(WeaponClasses) {
		weapon = WeaponBlaster
	}

	x, y := g.playerSpawn()
	player := NewPlayer(GenerateID(4), name, weapon, x, y)
	g.players[player.ID] = player
	g.log.WithFields(logrus.Fields{"player": player.ID, "weapon": GetWeaponDef(weapon).Name}).Info("player joined")
	return player
}

// RemovePlayer removes a player and returns the run they leave behind, or
// nil if the player is unknown
func (g *Game) RemovePlayer(id string) *RunRow {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return nil
	}
	delete(g.players, id)
	delete(g.clients, id)

	run := &RunRow{
		PlayerID:    p.AuthPlayerID,
		SessionID:   g.id,
		Region:      g.region.Name,
		Weapon:      int(p.Weapon),
		WaveReached: g.wave,
		Kills:       p.Kills,
		Deaths:      p.Deaths,
		Duration:    time.Since(p.JoinedAt).Seconds(),
	}
	g.log.WithFields(logrus.Fields{"player": id, "kills": p.Kills, "wave": g.wave}).Info("player left")
	return run
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// SetAuth links an in-game player to an account
func (g *Game) SetAuth(playerID string, authID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[playerID]; ok {
		p.AuthPlayerID = authID
	}
}

// HandleInput processes input from a player
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	p.SetInput(g.world, input)
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// HasPlayer reports whether a player is in the game
func (g *Game) HasPlayer(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.players[id]
	return ok
}

// Wave returns the current wave number (0 before the first wave)
func (g *Game) Wave() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.wave
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++

	g.grid.Rebuild(g.obstacles, g.tick)

	g.updatePlayers(dt)
	g.updateEnemies(dt)
	g.updateProjectiles(dt)
	g.resolveHits()
	g.resolveHostileHits()
	g.resolveContacts()
	g.sweep()
	g.updateWaves(dt)

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

func (g *Game) updatePlayers(dt float64) {
	for _, p := range g.players {
		if p.Update(dt, g.resolver, g.obstacles) {
			x, y := g.playerSpawn()
			p.Respawn(x, y)
		}
		if p.Alive && p.HP < p.MaxHP && g.inPool(p.X, p.Y) {
			p.Heal(PoolHealRate * dt)
		}

		if p.CanFire() && len(g.projectiles) < maxProjectilesPerSession {
			def := GetWeaponDef(p.Weapon)
			crit := randFloat() < def.CritChance
			g.projectiles = append(g.projectiles, def.NewShot(p.ID, g.world, p.X, p.Y, p.Rotation, crit))
			p.FireCD = def.Cooldown
		}
	}
}

// inPool reports whether (x, y) lies inside a passable pool
func (g *Game) inPool(x, y float64) bool {
	for _, o := range g.obstacles {
		if o.Kind == sim.Passable &&
			math.Abs(g.world.Delta(o.X, x)) < o.HalfW &&
			math.Abs(g.world.Delta(o.Y, y)) < o.HalfH {
			return true
		}
	}
	return false
}

// nearestPlayer returns the closest living player by wrapped distance
func (g *Game) nearestPlayer(x, y float64) *Player {
	var best *Player
	bestD := 0.0
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		d := g.world.DistanceSq(x, y, p.X, p.Y)
		if best == nil || d < bestD || (d == bestD && p.ID < best.ID) {
			best, bestD = p, d
		}
	}
	return best
}

func (g *Game) anyAlive() bool {
	for _, p := range g.players {
		if p.Alive {
			return true
		}
	}
	return false
}

func (g *Game) updateEnemies(dt float64) {
	nav := Navigator{Paths: g.paths, Slider: g.slider, Obstacles: g.obstacles}
	for _, e := range g.enemies {
		target := g.nearestPlayer(e.X, e.Y)
		if target == nil {
			continue
		}
		if e.Update(dt, target.X, target.Y, nav) && len(g.projectiles) < maxProjectilesPerSession {
			g.projectiles = append(g.projectiles, e.Shot(g.world))
		}
	}
}

func (g *Game) updateProjectiles(dt float64) {
	for _, p := range g.projectiles {
		p.Advance(g.world, dt)
		// Walls eat shots
		if !p.Dead && g.world.Blocked(p.X, p.Y, 0, g.obstacles) {
			p.Dead = true
		}
	}
}

// indexEnemies fills the broad-phase grid and the body list with living
// enemies. Body i belongs to g.enemies[i]; dead enemies keep their slot but
// are never inserted.
func (g *Game) indexEnemies() {
	g.spatial.Clear()
	g.bodies = g.bodies[:0]
	for i, e := range g.enemies {
		b := e.Body()
		g.bodies = append(g.bodies, b)
		if e.Alive {
			g.spatial.InsertCircle(b.X, b.Y, b.Radius, EntityRef{Kind: 'e', Idx: i})
		}
	}
}

// candidates returns the living enemies whose cells overlap the circle, in
// g.enemies order, plus their indices into g.enemies
func (g *Game) candidates(x, y, radius float64) ([]sim.Body, []int) {
	g.refBuf = SortRefs(g.spatial.QueryBuf(x, y, radius, g.refBuf[:0]))
	g.candBuf = g.candBuf[:0]
	g.idxBuf = g.idxBuf[:0]
	for _, r := range g.refBuf {
		if !g.enemies[r.Idx].Alive {
			continue
		}
		g.candBuf = append(g.candBuf, g.bodies[r.Idx])
		g.idxBuf = append(g.idxBuf, r.Idx)
	}
	return g.candBuf, g.idxBuf
}

// maxEnemyRadius pads broad-phase queries so large enemies are not missed
func maxEnemyRadius() float64 {
	r := 0.0
	for _, def := range EnemyKinds {
		if def.Radius > r {
			r = def.Radius
		}
	}
	return r
}

var queryPad = maxEnemyRadius()

// resolveHits runs player projectiles against enemies. Projectiles spawned
// here by splits are only checked from the next tick on.
func (g *Game) resolveHits() {
	g.indexEnemies()
	n := len(g.projectiles)
	for i := 0; i < n; i++ {
		p := g.projectiles[i]
		if p.Dead || p.Hostile {
			continue
		}
		cand, idx := g.candidates(p.X, p.Y, p.Radius+queryPad)
		hit, ok := g.combat.ProjectileVsEnemies(p, cand)
		if !ok {
			continue
		}
		ei := idx[hit.Index]
		enemy := g.enemies[ei]
		dmg := hitDamage(hit.Damage, hit.Crit)
		g.damageEnemy(enemy, dmg, p.OwnerID)

		if hit.Explode {
			// idx aliases scratch that the next query overwrites
			cand, idx = g.candidates(p.X, p.Y, hit.ExplodeRadius+queryPad)
			ex := g.combat.ExplosionQuery(p.X, p.Y, hit.ExplodeRadius, cand, hit.EnemyID)
			splash := make([]int, 0, len(ex.Indices))
			for _, k := range ex.Indices {
				splash = append(splash, idx[k])
			}
			for _, k := range splash {
				g.damageEnemy(g.enemies[k], dmg*ex.Multiplier, p.OwnerID)
			}
		}

		if hit.Knockback && enemy.Alive {
			enemy.X, enemy.Y = g.combat.ApplyKnockback(enemy.X, enemy.Y, hit.KnockbackAngle, hit.KnockbackForce)
			// The broad-phase cell is stale until the next tick; the body
			// position is not.
			g.bodies[ei].X, g.bodies[ei].Y = enemy.X, enemy.Y
		}

		if hit.Splits {
			for _, c := range g.combat.Split(p.X, p.Y, hit.Damage, hit.Crit) {
				if len(g.projectiles) >= maxProjectilesPerSession {
					break
				}
				g.projectiles = append(g.projectiles, newSplitShot(p.OwnerID, c, hit.EnemyID))
			}
		}
	}
}

// resolveHostileHits runs enemy projectiles against players. Immune
// players let them pass.
func (g *Game) resolveHostileHits() {
	for _, p := range g.projectiles {
		if p.Dead || !p.Hostile {
			continue
		}
		for _, pl := range g.players {
			if !pl.Alive || pl.Immune() {
				continue
			}
			if g.combat.ProjectileVsPlayer(p, pl.Body()) {
				g.damagePlayer(pl, p.Damage, p.OwnerID)
				break
			}
		}
	}
}

// resolveContacts applies touch damage on the contact cadence
func (g *Game) resolveContacts() {
	alive := g.candBuf[:0]
	owners := g.idxBuf[:0]
	for i, e := range g.enemies {
		if e.Alive {
			alive = append(alive, e.Body())
			owners = append(owners, i)
		}
	}
	for _, pl := range g.players {
		if !pl.Alive {
			continue
		}
		c := g.combat.PlayerVsEnemies(pl.Body(), alive, g.tick, pl.Immune())
		if c.ShouldDamage {
			e := g.enemies[owners[c.Index]]
			g.damagePlayer(pl, e.Def().ContactDamage, e.ID)
		}
	}
}

func (g *Game) damageEnemy(e *Enemy, dmg float64, ownerID string) {
	if !e.TakeDamage(dmg) {
		return
	}
	killer, ok := g.players[ownerID]
	if !ok {
		return
	}
	killer.Kills++
	g.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
		KillerID:   killer.ID,
		KillerName: killer.Name,
		EnemyID:    e.ID,
		EnemyKind:  e.Def().Name,
	}})
	g.analytics.Track(EvtEnemyKill, killer.AuthPlayerID, g.id, fmt.Sprintf(`{"kind":%q,"wave":%d}`, e.Def().Name, g.wave))
}

func (g *Game) damagePlayer(p *Player, dmg float64, sourceID string) {
	if !p.TakeDamage(dmg) {
		return
	}
	kind := ""
	for _, e := range g.enemies {
		if e.ID == sourceID {
			kind = e.Def().Name
			break
		}
	}
	if client, ok := g.clients[p.ID]; ok {
		client.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{
			KillerID:   sourceID,
			KillerKind: kind,
			Respawn:    RespawnTime,
		}})
	}
	g.analytics.Track(EvtPlayerDeath, p.AuthPlayerID, g.id, fmt.Sprintf(`{"by":%q,"wave":%d}`, kind, g.wave))
}

// sweep drops spent projectiles and dead enemies, keeping order
func (g *Game) sweep() {
	live := g.projectiles[:0]
	for _, p := range g.projectiles {
		if !p.Dead {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(g.projectiles); i++ {
		g.projectiles[i] = nil
	}
	g.projectiles = live

	alive := g.enemies[:0]
	for _, e := range g.enemies {
		if e.Alive {
			alive = append(alive, e)
		}
	}
	for i := len(alive); i < len(g.enemies); i++ {
		g.enemies[i] = nil
	}
	g.enemies = alive
}

// updateWaves starts the next wave once the field is clear and the break
// has run out. Nothing spawns while no player is alive.
func (g *Game) updateWaves(dt float64) {
	if len(g.enemies) > 0 {
		return
	}
	if g.waveBreak > 0 {
		g.waveBreak -= dt
		return
	}
	if !g.anyAlive() {
		return
	}
	g.startWave()
}

// WaveSize returns how many enemies wave n spawns
func WaveSize(n int) int {
	return WaveBaseEnemies + WaveExtraEnemies*n
}

// waveKind picks the kind of the i-th enemy of wave n. Brutes join from
// wave 2, spitters from wave 3.
func waveKind(n, i int) EnemyKind {
	switch {
	case n >= 3 && i%3 == 2:
		return EnemySpitter
	case n >= 2 && i%4 == 3:
		return EnemyBrute
	default:
		return EnemyChaser
	}
}

func (g *Game) startWave() {
	g.wave++
	g.waveBreak = WaveBreak
	want := WaveSize(g.wave)
	spawned := 0
	for i := 0; i < want && len(g.enemies) < maxEnemiesPerSession; i++ {
		kind := waveKind(g.wave, i)
		x, y, ok := g.freePoint(GetEnemyDef(kind).Radius+sim.EnemyMoveMargin, SpawnMinDistance)
		if !ok {
			continue
		}
		g.enemies = append(g.enemies, NewEnemy(kind, x, y))
		spawned++
	}
	g.log.WithFields(logrus.Fields{"wave": g.wave, "enemies": spawned}).Info("wave started")
	g.broadcastMsg(Envelope{T: MsgWave, Data: WaveMsg{Wave: g.wave, Enemies: spawned}})
	g.analytics.Track(EvtWaveStart, 0, g.id, fmt.Sprintf(`{"wave":%d,"enemies":%d}`, g.wave, spawned))
}

// freePoint picks a random position clear of blocking obstacles (by
// margin), off blocked grid cells, and at least minDist from every living
// player. ok is false when no such point was found.
func (g *Game) freePoint(margin, minDist float64) (x, y float64, ok bool) {
	minSq := minDist * minDist
	for i := 0; i < spawnAttempts; i++ {
		x = randFloat() * g.world.Size
		y = randFloat() * g.world.Size
		if g.world.Blocked(x, y, margin, g.obstacles) || g.grid.BlockedAt(x, y) {
			continue
		}
		clear := true
		for _, p := range g.players {
			if p.Alive && g.world.DistanceSq(x, y, p.X, p.Y) < minSq {
				clear = false
				break
			}
		}
		if clear {
			return x, y, true
		}
	}
	return x, y, false
}

// playerSpawn picks a spawn point for a player. When random picks keep
// landing in obstacles it scans cell centres in order and takes the first
// clear one.
func (g *Game) playerSpawn() (float64, float64) {
	margin := PlayerRadius + sim.PlayerMoveMargin
	if x, y, ok := g.freePoint(margin, 0); ok {
		return x, y
	}
	for cy := 0; cy < g.grid.Rows(); cy++ {
		for cx := 0; cx < g.grid.Cols(); cx++ {
			x, y := g.grid.CellCenter(cx, cy)
			if !g.world.Blocked(x, y, margin, g.obstacles) {
				return x, y
			}
		}
	}
	g.log.Warn("no clear spawn point in region")
	return g.world.Size / 2, g.world.Size / 2
}

// GridInfo exports the current obstacle grid
func (g *Game) GridInfo() GridInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cols, rows := g.grid.Cols(), g.grid.Rows()
	bits := g.grid.Snapshot()
	info := GridInfo{Cols: cols, Rows: rows, CellSize: g.grid.CellSize(), Cells: make([]string, rows)}
	line := make([]byte, cols)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if bits[cy*cols+cx] {
				line[cx] = '#'
				info.Blocked++
			} else {
				line[cx] = '.'
			}
		}
		info.Cells[cy] = string(line)
	}
	return info
}

// snapshot builds the state broadcast. Caller holds the lock.
func (g *Game) snapshot() GameState {
	state := GameState{
		Players:     make([]PlayerState, 0, len(g.players)),
		Projectiles: make([]ProjectileState, 0, len(g.projectiles)),
		Enemies:     make([]EnemyState, 0, len(g.enemies)),
		Wave:        g.wave,
		Tick:        g.tick,
	}
	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, p := range g.projectiles {
		state.Projectiles = append(state.Projectiles, ProjectileState{
			ID:      p.ID,
			X:       round1(p.X),
			Y:       round1(p.Y),
			Owner:   p.OwnerID,
			Hostile: p.Hostile,
			Crit:    p.Crit,
		})
	}
	for _, e := range g.enemies {
		state.Enemies = append(state.Enemies, e.ToState())
	}
	return state
}

// broadcastState sends the current game state to all clients, as msgpack
// to real connections and as a JSON envelope to anything else
func (g *Game) broadcastState() {
	state := g.snapshot()
	data, err := msgpack.Marshal(&state)
	if err != nil {
		g.log.WithError(err).Error("encode state")
		return
	}
	for _, client := range g.clients {
		if bs, ok := client.(binarySender); ok {
			bs.SendBinary(data)
			continue
		}
		client.SendJSON(Envelope{T: MsgState, Data: state})
	}
}

// broadcastMsg sends a message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	if len(g.clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		g.log.WithError(err).Error("encode message")
		return
	}
	for _, client := range g.clients {
		if c, ok := client.(*Client); ok {
			c.SendRaw(data)
			continue
		}
		client.SendJSON(msg)
	}
}

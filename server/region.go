package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"torus-survival/internal/logger"
	"torus-survival/sim"
)

// Region is a named obstacle layout for a world of a given size
type Region struct {
	Name      string
	Seed      int64
	WorldSize float64
	Obstacles []sim.Obstacle
}

// World returns the wrapped world the region is laid out on
func (r *Region) World() sim.World {
	return sim.World{Size: r.WorldSize}
}

// ToMsg converts the layout to its wire form
func (r *Region) ToMsg() ObstaclesMsg {
	msg := ObstaclesMsg{
		Region:    r.Name,
		WorldSize: r.WorldSize,
		Obstacles: make([]ObstacleState, 0, len(r.Obstacles)),
	}
	for _, o := range r.Obstacles {
		msg.Obstacles = append(msg.Obstacles, ObstacleState{
			X: o.X, Y: o.Y, HalfW: o.HalfW, HalfH: o.HalfH, Kind: o.Kind.String(),
		})
	}
	return msg
}

const (
	regionDensity  = 250.0 // world units per obstacle along one axis
	regionPoolRate = 0.15  // share of passable pools

	// Blocking pieces stay small enough that piece plus grid margin lies
	// inside the grid's proximity radius; longer walls are chains of them.
	wallPieceHalf  = 25.0
	pillarHalfMin  = 15.0
	pillarHalfSpan = 15.0
)

// GenerateRegion lays out obstacles deterministically from seed. The same
// name, seed and size always give the same layout. Walls are emitted as
// runs of touching pieces, so a layout usually has more obstacles than
// features.
func GenerateRegion(name string, seed int64, worldSize float64) *Region {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	world := sim.World{Size: worldSize}
	n := regionFeatures(worldSize)
	r := &Region{Name: name, Seed: seed, WorldSize: worldSize}
	for i := 0; i < n; i++ {
		x := world.Wrap(math.Round(rng.Float64() * worldSize))
		y := world.Wrap(math.Round(rng.Float64() * worldSize))
		switch roll := rng.Float64(); {
		case roll < regionPoolRate:
			half := 40 + math.Round(rng.Float64()*40)
			r.Obstacles = append(r.Obstacles, sim.Obstacle{X: x, Y: y, HalfW: half, HalfH: half, Kind: sim.Passable})
		case roll < 0.55:
			long, thin := 80+math.Round(rng.Float64()*120), 10+math.Round(rng.Float64()*10)
			r.Obstacles = append(r.Obstacles, wallPieces(world, x, y, long, thin, rng.IntN(2) == 0)...)
		default:
			r.Obstacles = append(r.Obstacles, sim.Obstacle{
				X:     x,
				Y:     y,
				HalfW: pillarHalfMin + math.Round(rng.Float64()*pillarHalfSpan),
				HalfH: pillarHalfMin + math.Round(rng.Float64()*pillarHalfSpan),
				Kind:  sim.Blocking,
			})
		}
	}
	return r
}

// regionFeatures is how many walls, pillars and pools a world gets
func regionFeatures(worldSize float64) int {
	n := int(math.Round(worldSize/regionDensity*worldSize/regionDensity)) / 6
	if n < 1 {
		n = 1
	}
	return n
}

// wallPieces splits a wall centred on (x, y) with half-length long into
// equal touching pieces of half-length at most wallPieceHalf.
func wallPieces(world sim.World, x, y, long, thin float64, horizontal bool) []sim.Obstacle {
	count := int(math.Ceil(long / wallPieceHalf))
	half := long / float64(count)
	out := make([]sim.Obstacle, 0, count)
	for k := 0; k < count; k++ {
		off := -long + half*float64(2*k+1)
		o := sim.Obstacle{Kind: sim.Blocking}
		if horizontal {
			o.X, o.Y, o.HalfW, o.HalfH = world.Wrap(x+off), y, half, thin
		} else {
			o.X, o.Y, o.HalfW, o.HalfH = x, world.Wrap(y+off), thin, half
		}
		out = append(out, o)
	}
	return out
}

// LoadOrCreateRegion returns the stored region called name. When it is
// missing, or stored for another world size, a fresh one is generated from
// seed and saved. A nil db always generates.
func LoadOrCreateRegion(db *DB, name string, seed int64, worldSize float64) (*Region, error) {
	if db == nil {
		return GenerateRegion(name, seed, worldSize), nil
	}
	r, err := db.GetRegion(name)
	if err != nil {
		return nil, fmt.Errorf("load region %q: %w", name, err)
	}
	if r != nil && r.WorldSize == worldSize {
		return r, nil
	}
	r = GenerateRegion(name, seed, worldSize)
	if err := db.SaveRegion(r); err != nil {
		return nil, fmt.Errorf("save region %q: %w", name, err)
	}
	logger.Log.WithFields(logrus.Fields{
		"region":    name,
		"seed":      seed,
		"obstacles": len(r.Obstacles),
	}).Info("generated region")
	return r, nil
}

// SaveRegion replaces the stored layout for r.Name
func (db *DB) SaveRegion(r *Region) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM region_obstacles WHERE region = ?", r.Name); err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO regions (name, seed, world_size) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET seed = excluded.seed, world_size = excluded.world_size`,
		r.Name, r.Seed, r.WorldSize,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO region_obstacles (region, idx, x, y, half_w, half_h, kind) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, o := range r.Obstacles {
		if _, err := stmt.Exec(r.Name, i, o.X, o.Y, o.HalfW, o.HalfH, int(o.Kind)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRegion loads a stored region with its obstacles in saved order, or
// nil if there is none
func (db *DB) GetRegion(name string) (*Region, error) {
	r := &Region{Name: name}
	err := db.conn.QueryRow("SELECT seed, world_size FROM regions WHERE name = ?", name).
		Scan(&r.Seed, &r.WorldSize)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := db.conn.Query(
		"SELECT x, y, half_w, half_h, kind FROM region_obstacles WHERE region = ? ORDER BY idx",
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var o sim.Obstacle
		var kind int
		if err := rows.Scan(&o.X, &o.Y, &o.HalfW, &o.HalfH, &kind); err != nil {
			return nil, err
		}
		o.Kind = sim.ObstacleKind(kind)
		r.Obstacles = append(r.Obstacles, o)
	}
	return r, rows.Err()
}

// ListRegions returns the names of all stored regions
func (db *DB) ListRegions() ([]string, error) {
	rows, err := db.conn.Query("SELECT name FROM regions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

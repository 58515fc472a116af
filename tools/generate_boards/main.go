package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/render"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// base spots a player releases to in defence, by court zone 1-6
var zones = [6]geom.Position{
	{X: 0.82, Y: 0.82}, // 1 right back
	{X: 0.82, Y: 0.15}, // 2 right front
	{X: 0.5, Y: 0.12},  // 3 middle front
	{X: 0.18, Y: 0.15}, // 4 left front
	{X: 0.18, Y: 0.82}, // 5 left back
	{X: 0.5, Y: 0.75},  // 6 middle back
}

// rotation order of the six court players, starting in zone 1
var order = [6]core.Role{
	core.RoleSetter, core.RoleOutside1, core.RoleMiddle2,
	core.RoleOpposite, core.RoleOutside2, core.RoleMiddle1,
}

func main() {
	dir := flag.String("out", "boards", "output directory")
	random := flag.Int("random", 4, "number of random stress boards")
	seed := flag.Int64("seed", 1, "random seed")
	pictures := flag.Bool("png", true, "write a picture next to each board")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatal(err)
	}

	for rot := 0; rot < 6; rot++ {
		write(*dir, fmt.Sprintf("rotation%d", rot+1), rotation(rot), *pictures)
	}
	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *random; i++ {
		write(*dir, fmt.Sprintf("stress%02d", i+1), stress(rng, i), *pictures)
	}
}

// rotation is a release from rotational order to base. The libero
// replaces whichever middle blocker is in the back row.
func rotation(rot int) *board.Board {
	b := board.New(fmt.Sprintf("Rotation %d to base", rot+1))
	b.Author = "generate_boards"
	for z := 0; z < 6; z++ {
		r := order[(z+rot)%6]
		home := zones[z]
		target := base(r)
		back := z == 0 || z >= 4
		if back && (r == core.RoleMiddle1 || r == core.RoleMiddle2) {
			r = core.RoleLibero
			target = geom.Pos(0.5, 0.88)
		}
		t := target
		b.Tokens = append(b.Tokens, board.Token{Role: r, Home: home, Target: &t})
	}
	return b
}

func base(r core.Role) geom.Position {
	switch r {
	case core.RoleSetter:
		return geom.Pos(0.62, 0.2)
	case core.RoleOutside1, core.RoleOutside2:
		return geom.Pos(0.15, 0.3)
	case core.RoleMiddle1, core.RoleMiddle2:
		return geom.Pos(0.5, 0.18)
	case core.RoleOpposite:
		return geom.Pos(0.85, 0.3)
	default:
		return zones[5]
	}
}

// stress scatters every role with a long arrow across the court so paths
// cross many times
func stress(rng *rand.Rand, i int) *board.Board {
	b := board.New(fmt.Sprintf("Stress %d", i+1))
	b.Author = "generate_boards"
	for _, r := range core.AllRoles() {
		home := geom.Pos(rng.Float64(), rng.Float64())
		target := geom.Pos(1-home.X+rng.Float64()*0.2-0.1, 1-home.Y+rng.Float64()*0.2-0.1)
		target = geom.ClampToBounds(target, geom.Court)
		tok := board.Token{Role: r, Home: home, Target: &target}
		if rng.Intn(3) == 0 {
			c := geom.Pos(rng.Float64(), rng.Float64())
			tok.Control = &c
		}
		b.Tokens = append(b.Tokens, tok)
	}
	return b
}

func write(dir, name string, b *board.Board, picture bool) {
	path := filepath.Join(dir, name+".board.json")
	if err := b.SaveJSON(path); err != nil {
		log.Fatalf("%s: %v", name, err)
	}
	log.Printf("wrote %s (%d tokens)", path, len(b.Tokens))
	if !picture {
		return
	}
	scene := render.IdleScene(b, tuning.Default(), core.NewRoster(), core.NoRole, core.NoRole)
	img, err := render.Rasterize(scene, 512)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
	f, err := os.Create(filepath.Join(dir, name+".png"))
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("%s: %v", name, err)
	}
}

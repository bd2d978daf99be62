package main

import (
	"flag"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/locomotion/sim"
)

func main() {
	variant := flag.String("variant", "default", "tuning variant from prefabs/locomotion.yaml")
	debug := flag.Bool("debug", false, "enable debug overlay and transition logging")
	backendName := flag.String("backend", string(sim.BackendChipmunk), "physics backend: box, chipmunk or resolv")
	rules := flag.String("rules", "hard_landing", "comma separated transition scripts in prefabs/scripts")
	flag.Parse()

	backend, err := sim.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion")

	game, err := NewGame(*variant, backend, splitList(*rules), *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

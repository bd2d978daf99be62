package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/ebitenui/ebitenui"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/present"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/sim"
	"github.com/milk9111/locomotion/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	statusSeconds = 2.0
)

type Game struct {
	debug  bool
	paused bool

	variant string
	spec    *prefabs.LocomotionSpec
	arena   *sim.Arena

	world     *sim.World
	character *system.Character
	rules     []*script.Rule
	unsub     []func()

	rig     *present.CameraRig
	marker  *present.DestinationMarker
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher

	clipboardOK bool
	status      string
	statusTTL   float64
}

func NewGame(variant string, backend sim.Backend, ruleNames []string, debug bool) (*Game, error) {
	spec, err := prefabs.LoadLocomotionSpec()
	if err != nil {
		return nil, err
	}
	arenaSpec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return nil, err
	}
	arena, err := sim.BuildArena(arenaSpec, backend, sim.DefaultPixelsPerUnit)
	if err != nil {
		return nil, err
	}
	world, err := sim.NewWorld(sim.DefaultDT, sim.DefaultMaxSteps, nil)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:   debug,
		variant: variant,
		spec:    spec,
		arena:   arena,
		world:   world,
		rig:     present.NewCameraRig(baseWidth, baseHeight, arena.PixelsPerUnit),
		marker:  present.NewDestinationMarker(),
	}

	for _, name := range ruleNames {
		rule, err := script.Load(name)
		if err != nil {
			return nil, err
		}
		g.rules = append(g.rules, rule)
	}

	c, err := g.newCharacter(variant)
	if err != nil {
		return nil, err
	}
	g.attach(c)
	world.Add(c, input.NewEbiten(g.rig.Pick))
	world.AddSystem(sim.NewHazardSystem(arenaSpec, nil))
	g.rig.Snap(c.Motion().Position)

	g.pauseUI = NewPauseUI(g, spec.VariantNames())

	if err := clipboard.Init(); err != nil {
		log.Printf("game: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts"); err != nil {
		log.Printf("game: hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	return g, nil
}

func (g *Game) newCharacter(variant string) (*system.Character, error) {
	tuning, warnings, err := g.spec.Tuning(variant)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("game: %s", w)
	}

	rules := make([]system.Rule, 0, len(g.rules))
	for _, r := range g.rules {
		rules = append(rules, r)
	}

	g.arena.Body.Teleport(g.arena.Spec.Spawn)
	return system.NewCharacter(tuning, g.arena.Body,
		system.WithCamera(g.rig),
		system.WithRules(rules...),
	)
}

// attach makes c the live character and moves the presentation
// subscriptions over to it.
func (g *Game) attach(c *system.Character) {
	for _, fn := range g.unsub {
		fn()
	}
	g.unsub = g.unsub[:0]
	if g.character != nil {
		g.world.Replace(g.character, c)
	}
	g.character = c
	g.unsub = append(g.unsub,
		g.rig.Watch(c),
		g.marker.Watch(c),
		c.OnStateChanged(func(ev system.StateChange) {
			if g.debug {
				log.Printf("game: tick %d %s -> %s", ev.Tick, ev.From, ev.To)
			}
		}),
	)
}

func (g *Game) switchVariant(variant string) {
	c, err := g.newCharacter(variant)
	if err != nil {
		g.setStatus(fmt.Sprintf("tuning %s: %v", variant, err))
		return
	}
	g.variant = variant
	g.attach(c)
	g.rig.Snap(c.Motion().Position)
	g.setStatus("tuning: " + variant)
}

func (g *Game) Update() error {
	dt := 1 / float64(ebiten.TPS())
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}

	g.world.Advance(dt)
	g.rig.Update(g.character.Motion().Position, dt)
	g.marker.Update(dt)

	if g.statusTTL > 0 {
		g.statusTTL -= dt
	}
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		name := strings.TrimSuffix(strings.TrimPrefix(change.Name(), "scripts/"), ".tengo")
		for _, r := range g.rules {
			if r.Name() != name {
				continue
			}
			src, err := prefabs.LoadScript(name)
			if err == nil {
				err = r.Reload(src)
			}
			if err != nil {
				g.setStatus(err.Error())
				continue
			}
			g.setStatus("reloaded " + change.Name())
		}
	case prefabs.ChangeSpec:
		if change.Name() != "locomotion.yaml" {
			return
		}
		spec, err := prefabs.LoadLocomotionSpec()
		if err != nil {
			g.setStatus(err.Error())
			return
		}
		g.spec = spec
		g.switchVariant(g.variant)
	}
}

func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		g.setStatus("clipboard unavailable")
		return
	}
	data, err := yaml.Marshal(g.character.Snapshot())
	if err != nil {
		g.setStatus(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("snapshot copied")
}

func (g *Game) setStatus(msg string) {
	log.Printf("game: %s", msg)
	g.status = msg
	g.statusTTL = statusSeconds
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	snap := g.character.Snapshot()
	present.DrawArena(screen, g.rig, g.arena.Spec.Boxes)
	present.DrawHazards(screen, g.rig, g.arena.Spec.Hazards)
	present.DrawCharacter(screen, g.rig, snap, g.arena.Spec.Body)
	g.marker.Draw(screen, g.rig)

	if g.debug {
		present.DrawSpace(screen, g.rig, g.arena.Space, g.arena.PixelsPerUnit)
		present.DrawDebug(screen, snap)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  %s/%s", ebiten.ActualFPS(), g.arena.Backend, g.variant), 10, baseHeight-20)
	}
	if g.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, baseWidth/2-len(g.status)*3, 10)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

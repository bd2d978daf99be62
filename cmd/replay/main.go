// Command replay runs a recorded input tape through a character headlessly
// and logs every state transition.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/sim"
	"github.com/milk9111/locomotion/system"
)

type options struct {
	tape    string
	variant string
	backend string
	rules   string
	trace   int
	tail    int
	dump    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.tape, "tape", "jump_course", "tape name in prefabs/tapes")
	flag.StringVar(&opts.variant, "variant", "default", "tuning variant from prefabs/locomotion.yaml")
	flag.StringVar(&opts.backend, "backend", string(sim.BackendBox), "physics backend: box, chipmunk or resolv")
	flag.StringVar(&opts.rules, "rules", "", "comma separated transition scripts in prefabs/scripts")
	flag.IntVar(&opts.trace, "trace", 0, "log position every N ticks, 0 disables")
	flag.IntVar(&opts.tail, "tail", 60, "extra neutral ticks after the tape ends")
	flag.BoolVar(&opts.dump, "yaml", false, "print the final snapshot as YAML")
	flag.Parse()

	logger := log.New(os.Stderr, "", 0)
	if err := run(opts, logger, os.Stdout); err != nil {
		logger.Fatal(err)
	}
}

func run(opts options, logger *log.Logger, out io.Writer) error {
	spec, err := prefabs.LoadLocomotionSpec()
	if err != nil {
		return err
	}
	tuning, warnings, err := spec.Tuning(opts.variant)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Printf("replay: %s", w)
	}

	arenaSpec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return err
	}
	backend, err := sim.ParseBackend(opts.backend)
	if err != nil {
		return err
	}
	arena, err := sim.BuildArena(arenaSpec, backend, sim.DefaultPixelsPerUnit)
	if err != nil {
		return err
	}

	var rules []system.Rule
	for _, name := range strings.Split(opts.rules, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		rule, err := script.Load(name)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}

	tape, err := input.LoadTape(opts.tape)
	if err != nil {
		return err
	}
	dt := tape.DT()
	if dt <= 0 {
		dt = sim.DefaultDT
	}

	c, err := system.NewCharacter(tuning, arena.Body, system.WithLogger(logger), system.WithRules(rules...))
	if err != nil {
		return err
	}
	c.OnStateChanged(func(ev system.StateChange) {
		logger.Printf("replay: tick %d %s -> %s", ev.Tick, ev.From, ev.To)
	})
	c.OnDestinationChanged(func(ev system.DestinationChange) {
		logger.Printf("replay: destination %s (%.2f, %.2f, %.2f)", ev.Reason, ev.Target.X, ev.Target.Y, ev.Target.Z)
	})

	world, err := sim.NewWorld(dt, 1, logger)
	if err != nil {
		return err
	}
	world.Add(c, tape)
	world.AddSystem(sim.NewHazardSystem(arenaSpec, logger))
	if opts.trace > 0 {
		world.AddSystem(tracer(opts.trace, logger))
	}

	ticks := tape.Len() + max(opts.tail, 0)
	for i := 0; i < ticks; i++ {
		world.Step()
	}

	snap := c.Snapshot()
	logger.Printf("replay: %s on %s/%s: %d ticks, ended %s at (%.2f, %.2f)",
		tape.Name(), backend, opts.variant, ticks, snap.State, snap.Motion.Position.X, snap.Motion.Position.Y)

	if opts.dump {
		return writeSnapshot(out, snap)
	}
	return nil
}

func tracer(every int, logger *log.Logger) sim.SystemFunc {
	return func(w *sim.World, dt float64) {
		if w.Steps()%uint64(every) != 0 {
			return
		}
		for _, a := range w.Actors() {
			m := a.Character.Motion()
			logger.Printf("replay: tick %d %-9s pos (%.2f, %.2f) vel (%.2f, %.2f)",
				w.Steps(), a.Character.State(), m.Position.X, m.Position.Y, m.Velocity.X, m.Velocity.Y)
		}
	}
}

func writeSnapshot(out io.Writer, snap component.DebugSnapshot) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("replay: encode snapshot: %w", err)
	}
	return enc.Close()
}

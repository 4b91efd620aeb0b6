package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/spherefall/internal/dynamo"
)

var defaultViewport = dynamo.Viewport{Width: 1280, Height: 720}

// Scripts are the named sessions the CLI can replay.
var Scripts = map[string]Script{
	"drizzle": {Frames: 600, FrameDelta: 1.0 / 60.0, SpawnEvery: 30, Viewport: defaultViewport},
	"storm":   {Frames: 1200, FrameDelta: 1.0 / 60.0, SpawnEvery: 2, Viewport: defaultViewport},
	// frames at 20 fps hit the substep cap every time
	"stutter": {Frames: 600, FrameDelta: 1.0 / 20.0, Jitter: 0.5, SpawnEvery: 10, Viewport: defaultViewport},
	"idle":    {Frames: 300, FrameDelta: 1.0 / 60.0, Viewport: defaultViewport},
}

func GetScript(name string) (Script, error) {
	s, ok := Scripts[name]
	if !ok {
		return Script{}, fmt.Errorf("unknown script: %s", name)
	}
	return s, nil
}

func ScriptNames() []string {
	names := make([]string, 0, len(Scripts))
	for k := range Scripts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

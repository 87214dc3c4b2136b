package audio

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/planets/vmath"
)

// DeathGenerator generates a decaying crackle over a low rumble
// Seeded per body so the same body always sounds the same
type DeathGenerator struct {
	sr     beep.SampleRate
	pos    int
	rumble float64
	noise  *vmath.FastRand
}

// NewDeathGenerator creates a crackle generator, weight in [0, 1] lowers the rumble pitch
func NewDeathGenerator(sr beep.SampleRate, seed uint64, weight float64) *DeathGenerator {
	weight = math.Max(0, math.Min(1, weight))
	return &DeathGenerator{
		sr:     sr,
		rumble: 140 - 80*weight,
		noise:  vmath.NewFastRand(seed + 1),
	}
}

func (g *DeathGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack, fast decay
		envelope := math.Exp(-t * 12)
		noise := g.noise.Float64()*2 - 1
		rumble := 0.3 * math.Sin(2*math.Pi*g.rumble*t)

		sample := envelope * (0.25*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *DeathGenerator) Err() error {
	return nil
}

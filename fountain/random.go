package fountain

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Source is the random generator consumed by spawns and the mirror coin flip.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a non-negative pseudo-random number in [0,n).
	Intn(n int) int
}

// NewSource returns a generator seeded with seed, or with the wall clock when
// seed is zero.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Vertical velocity ranges before scaling by power. Recycled particles get a
// wider range than the initial batch.
const (
	initialLiftRange = 5
	recycleLiftRange = 7
)

func horizontalVelocity(src Source, params *Params) float32 {
	return float32(src.Intn(200)-100) / 100.0 * params.Spread * params.Power
}

func spawnVelocity(src Source, params *Params, liftRange int) mgl32.Vec3 {
	return mgl32.Vec3{
		horizontalVelocity(src, params),
		(10.0 + float32(src.Intn(liftRange))) * params.Power,
		horizontalVelocity(src, params),
	}
}

func spawnLifespan(src Source) float32 {
	return 4.0 + float32(src.Intn(20))/10.0
}

func spawnColor(src Source) mgl32.Vec4 {
	return mgl32.Vec4{0.5 + float32(src.Intn(30))/100.0, 0.8, 1.0, 1.0}
}

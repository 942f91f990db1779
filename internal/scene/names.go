package scene

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// randomdata draws from one package-level source. It is seeded once and every
// draw holds nameMu, so generators in concurrent Enumerate calls do not race
// on it or reseed it.
var (
	nameMu   sync.Mutex
	nameSeed sync.Once
)

// attempts before a numeric suffix is used to force uniqueness.
const maxNameAttempts = 64

// nameGenerator hands out unique names for unnamed glTF nodes. Names already
// used by the scene are reserved first.
type nameGenerator map[string]struct{}

func newNameGenerator() nameGenerator {
	nameSeed.Do(func() {
		randomdata.CustomRand(rand.New(rand.NewSource(1)))
	})
	return make(nameGenerator)
}

func (g nameGenerator) reserve(name string) {
	g[name] = struct{}{}
}

func (g nameGenerator) taken(name string) bool {
	_, ok := g[name]
	return ok
}

func sillyName() string {
	nameMu.Lock()
	defer nameMu.Unlock()
	return randomdata.SillyName()
}

func (g nameGenerator) next() string {
	name := sillyName()
	for i := 1; g.taken(name); i++ {
		if i < maxNameAttempts {
			name = sillyName()
		} else {
			name = fmt.Sprintf("%s_%d", name, i)
		}
	}
	g.reserve(name)
	return name
}

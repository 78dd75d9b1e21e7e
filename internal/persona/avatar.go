package persona

import (
	"math/rand"

	"github.com/erin/vibecheck/internal/types"
)

// avatarPool is the fixed set of decorative avatar handles. The renderer
// resolves these to actual images; the core treats them as opaque.
var avatarPool = []string{
	"avatar-1",
	"avatar-2",
	"avatar-3",
	"avatar-4",
	"avatar-5",
	"avatar-6",
}

// AssignAvatars decorates a freshly generated slate with avatar refs.
// The pool is shuffled once per slate so a batch gets distinct avatars,
// wrapping around when the slate is larger than the pool. Purely cosmetic:
// avatar refs never participate in identity or matching.
func AssignAvatars(personas []types.Persona) {
	shuffled := make([]string, len(avatarPool))
	copy(shuffled, avatarPool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i := range personas {
		personas[i].AvatarRef = shuffled[i%len(shuffled)]
	}
}

// RandomAvatar picks one avatar ref for a single wildcard persona.
func RandomAvatar() string {
	return avatarPool[rand.Intn(len(avatarPool))]
}

package caption

import (
	"unicode"
	"unicode/utf8"
)

// Pose names one highlightable region of the mascot hand. The values match
// element ids in the frontend SVG.
type Pose string

const (
	Thumb  Pose = "thumb"
	Index  Pose = "index"
	Middle Pose = "middle"
	Ring   Pose = "ring"
	Pinky  Pose = "pinky"
)

// Poses lists every hand part in a fixed order.
var Poses = []Pose{Thumb, Index, Middle, Ring, Pinky}

var letterPose = map[rune]Pose{
	'a': Thumb,
	'b': Index,
	'c': Middle,
	'd': Ring,
	'e': Pinky,
}

// Rand is the source of the random pick for unmapped letters.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// PoseFor maps the first character of word to a hand part. Anything outside
// a..e gets a uniformly random part; this is a placeholder, not a sign mapping.
func PoseFor(word string, rnd Rand) Pose {
	r, _ := utf8.DecodeRuneInString(word)
	if p, ok := letterPose[unicode.ToLower(r)]; ok {
		return p
	}
	return Poses[rnd.Intn(len(Poses))]
}

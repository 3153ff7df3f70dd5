package utils

import "hash/fnv"

// AvatarPalette is the fixed set of avatar color keys the UI can render.
var AvatarPalette = []string{
	"saffron", "indigo", "vermilion", "jade", "amber", "lotus", "cobalt", "sandal",
}

// AvatarFor assigns a palette entry to an entity id. The assignment is a pure
// function of the id so repeated calls (and repeated renders) always agree.
func AvatarFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return AvatarPalette[int(h.Sum32())%len(AvatarPalette)]
}

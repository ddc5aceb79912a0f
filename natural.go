package bundlebase

import "github.com/maruel/natural"

// NaturalLess orders names so that runs of digits compare by value:
// item_2 sorts before item_10.
func NaturalLess(a, b string) bool {
	return natural.Less(a, b)
}

package camera

import "fmt"

// Visibility decides which wall colours a pixel when its ray crosses more
// than one wall in front of the image plane.
type Visibility int

const (
	// LastHit colours the pixel from the last accepted wall in map order,
	// regardless of distance. It is the default.
	LastHit Visibility = iota
	// NearestHit colours the pixel from the accepted wall closest to the
	// camera centre.
	NearestHit
)

func (v Visibility) String() string {
	switch v {
	case LastHit:
		return "last_hit"
	case NearestHit:
		return "nearest_hit"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// ParseVisibility accepts the names produced by String.
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "last_hit", "":
		return LastHit, nil
	case "nearest_hit":
		return NearestHit, nil
	default:
		return 0, fmt.Errorf("unknown visibility %q (want last_hit or nearest_hit)", s)
	}
}

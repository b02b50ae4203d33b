// Package superpixel maps native detector pixel ids onto aggregated super-pixel ids
package superpixel

import "strconv"

// Panel grid of the detector
const (
	Columns = 6
	Rows    = 3
)

// Panels returns the 18 panel names in column-major order: "11", "12", "13", "21", ... "63"
func Panels() []string {
	out := make([]string, 0, Columns*Rows)
	for c := 1; c <= Columns; c++ {
		for r := 1; r <= Rows; r++ {
			out = append(out, strconv.Itoa(c)+strconv.Itoa(r))
		}
	}
	return out
}

// EventIDPath is the container path of a panel's event id array
func EventIDPath(panel string) string {
	return "entry/bank" + panel + "_events/event_id"
}

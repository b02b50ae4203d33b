// Package geometry rewrites the embedded instrument geometry text so panel
// descriptors match an aggregated pixel layout.
//
// The text is edited positionally: each recognised line is split on double
// quotes and its quoted values are replaced by ordinal. Everything else,
// including unrecognised lines, is emitted byte for byte.
package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/mguthriem/sxl4snap/internal/core/superpixel"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// DataPath is the container path of the geometry text
const DataPath = "entry/instrument/instrument_xml/data"

// Line markers, checked in this order; the first match decides the edit
const (
	markPanel       = `<component type="panel"`
	markXPixels     = `xpixels=`
	markYPixels     = `ypixels=`
	markLeftFrontB  = `left-front-bottom-point`
	markLeftFrontT  = `left-front-top-point`
	markLeftBackB   = `left-back-bottom-point`
	markRightFrontB = `right-front-bottom-point`
)

type corner struct {
	marker string
	sx, sy float64
}

// corner sign pattern of the aggregated pixel shape
var corners = []corner{
	{markLeftFrontB, -1, -1},
	{markLeftFrontT, +1, -1},
	{markLeftBackB, -1, -1},
	{markRightFrontB, +1, -1},
}

// Rewrite returns text with every panel descriptor adjusted for f.
// Line count and order are preserved.
func Rewrite(text string, f superpixel.Factor) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	superN := (superpixel.NativeX / f.X) * (superpixel.NativeY / f.Y)

	lines := strings.Split(text, "\n")
	for n, line := range lines {
		out, err := rewriteLine(line, f, superN)
		if err != nil {
			return "", perr.WithOp(perr.Wrapf(err, perr.CodeOf(err), "geometry line %d", n+1), "geometry.Rewrite")
		}
		lines[n] = out
	}
	return strings.Join(lines, "\n"), nil
}

func rewriteLine(line string, f superpixel.Factor, superN int) (string, error) {
	switch {
	case strings.Contains(line, markPanel):
		return rewritePanel(line, f, superN)
	case strings.Contains(line, markXPixels):
		return rewriteAxis(line, f.X)
	case strings.Contains(line, markYPixels):
		return rewriteAxis(line, f.Y)
	}
	for _, c := range corners {
		if strings.Contains(line, c.marker) {
			return rewriteCorner(line, c, f)
		}
	}
	return line, nil
}

// rewritePanel edits idstart (value 1) and idstepbyrow (value 3)
func rewritePanel(line string, f superpixel.Factor, superN int) (string, error) {
	s := splitSpans(line)
	if s.values() < 4 {
		return "", perr.InvalidArgf("panel line has %d quoted values, need 4", s.values())
	}
	start, err := parseInt(s.value(1), "idstart")
	if err != nil {
		return "", err
	}
	if start%superpixel.NNat != 0 {
		return "", perr.InvalidArgf("idstart %d is not a multiple of %d", start, superpixel.NNat)
	}
	step, err := parseInt(s.value(3), "idstepbyrow")
	if err != nil {
		return "", err
	}
	s.set(1, strconv.FormatInt(start/superpixel.NNat*int64(superN), 10))
	s.set(3, strconv.FormatInt(step/int64(f.X), 10))
	return s.String(), nil
}

// rewriteAxis edits count (value 0), start (value 1) and step (value 2).
// The new start is the centre of the first aggregated pixel
func rewriteAxis(line string, dim int) (string, error) {
	s := splitSpans(line)
	if s.values() < 3 {
		return "", perr.InvalidArgf("pixel axis line has %d quoted values, need 3", s.values())
	}
	count, err := parseInt(s.value(0), "pixel count")
	if err != nil {
		return "", err
	}
	if count%int64(dim) != 0 {
		return "", perr.InvalidArgf("pixel count %d is not divisible by %d", count, dim)
	}
	start, err := parseFloat(s.value(1), "start")
	if err != nil {
		return "", err
	}
	step, err := parseFloat(s.value(2), "step")
	if err != nil {
		return "", err
	}
	s.set(0, strconv.FormatInt(count/int64(dim), 10))
	s.set(1, formatLike(s.value(1), start+float64(dim-1)*step/2))
	s.set(2, formatLike(s.value(2), step*float64(dim)))
	return s.String(), nil
}

// rewriteCorner scales the native half pitch (values 0 and 1) by the factor
func rewriteCorner(line string, c corner, f superpixel.Factor) (string, error) {
	s := splitSpans(line)
	if s.values() < 2 {
		return "", perr.InvalidArgf("%s line has %d quoted values, need 2", c.marker, s.values())
	}
	x, err := parseFloat(s.value(0), "x")
	if err != nil {
		return "", err
	}
	y, err := parseFloat(s.value(1), "y")
	if err != nil {
		return "", err
	}
	s.set(0, formatLike(s.value(0), c.sx*math.Abs(x)*float64(f.X)))
	s.set(1, formatLike(s.value(1), c.sy*math.Abs(y)*float64(f.Y)))
	return s.String(), nil
}

// formatLike renders v with the decimal count and explicit plus sign of old
func formatLike(old string, v float64) string {
	var out string
	if strings.ContainsAny(old, "eE") {
		out = strconv.FormatFloat(v, 'g', -1, 64)
	} else {
		decimals := 0
		if i := strings.IndexByte(old, '.'); i >= 0 {
			decimals = len(old) - i - 1
		}
		out = strconv.FormatFloat(v, 'f', decimals, 64)
	}
	if strings.HasPrefix(old, "+") && !strings.HasPrefix(out, "-") {
		out = "+" + out
	}
	return out
}

func parseInt(s, what string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "%s %q is not an integer", what, s)
	}
	return v, nil
}

func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "%s %q is not a number", what, s)
	}
	return v, nil
}

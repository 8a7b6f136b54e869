package wisp

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/lucasb-eyer/go-colorful"
)

// Capability is the narrowest color encoding the differ is allowed to emit.
type Capability int

const (
	CapabilityNone Capability = iota
	Capability16
	Capability256
	CapabilityTrueColor
)

// DetectCapability probes the process environment the way basementui's
// Screen checked $TERM, generalized to a tiered probe (16/256/truecolor,
// or none): it reads TERM_PROGRAM and the platform's color-support hints
// (COLORTERM, TERM, NO_COLOR) via colorprofile.Detect, the same capability
// probe charmbracelet/ultraviolet uses for its terminal writer.
func DetectCapability(out io.Writer, environ []string) Capability {
	profile := colorprofile.Detect(out, environ)
	switch profile {
	case colorprofile.TrueColor:
		return CapabilityTrueColor
	case colorprofile.ANSI256:
		return Capability256
	case colorprofile.ANSI:
		return Capability16
	default:
		return CapabilityNone
	}
}

// DetectDefaultCapability probes os.Stdout and os.Environ.
func DetectDefaultCapability() Capability {
	return DetectCapability(os.Stdout, os.Environ())
}

// ParseCapability parses the persisted config/Settings.ColorCapability
// override string ("", "none", "16", "256", "truecolor"); an empty or
// unrecognized string reports ok=false so the caller falls back to
// DetectDefaultCapability.
func ParseCapability(s string) (cap Capability, ok bool) {
	switch s {
	case "none":
		return CapabilityNone, true
	case "16":
		return Capability16, true
	case "256":
		return Capability256, true
	case "truecolor":
		return CapabilityTrueColor, true
	default:
		return CapabilityNone, false
	}
}

// ansi16Palette is the standard 16-color palette used to find the nearest
// ANSI index when downsampling a truecolor request.
var ansi16Palette = [16]colorful.Color{
	rgbColor(0, 0, 0), rgbColor(128, 0, 0), rgbColor(0, 128, 0), rgbColor(128, 128, 0),
	rgbColor(0, 0, 128), rgbColor(128, 0, 128), rgbColor(0, 128, 128), rgbColor(192, 192, 192),
	rgbColor(128, 128, 128), rgbColor(255, 0, 0), rgbColor(0, 255, 0), rgbColor(255, 255, 0),
	rgbColor(0, 0, 255), rgbColor(255, 0, 255), rgbColor(0, 255, 255), rgbColor(255, 255, 255),
}

func rgbColor(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// nearestANSI16 returns the 0-15 ANSI index whose color is closest to (r,g,b)
// in CIE Lab space, used when the capability probe has ruled out truecolor
// and 256-color output.
func nearestANSI16(r, g, b uint8) uint8 {
	target := rgbColor(r, g, b)
	best, bestDist := uint8(0), target.DistanceLab(ansi16Palette[0])
	for i := 1; i < len(ansi16Palette); i++ {
		if d := target.DistanceLab(ansi16Palette[i]); d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}

// nearestANSI256 returns a 256-color palette index close to (r,g,b), taken
// from the 6x6x6 color cube (16-231) or the grayscale ramp (232-255),
// whichever candidate is nearer in Lab space. The standard palette entries
// 0-15 are never returned.
func nearestANSI256(r, g, b uint8) uint8 {
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	nearestStep := func(v uint8) (idx int, val uint8) {
		best, bestDist := 0, 256
		for i, s := range steps {
			d := int(s) - int(v)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		return best, steps[best]
	}
	ri, rv := nearestStep(r)
	gi, gv := nearestStep(g)
	bi, bv := nearestStep(b)
	cube := 16 + 36*ri + 6*gi + bi

	// Grayscale ramp candidate (232-255): 24 steps from 8 to 238.
	gray := (int(r) + int(g) + int(b)) / 3
	grayIdx := (gray - 8) / 10
	if grayIdx < 0 {
		grayIdx = 0
	}
	if grayIdx > 23 {
		grayIdx = 23
	}
	grayVal := uint8(8 + grayIdx*10)

	cubeColor := rgbColor(rv, gv, bv)
	grayColor := rgbColor(grayVal, grayVal, grayVal)
	target := rgbColor(r, g, b)
	if target.DistanceLab(grayColor) < target.DistanceLab(cubeColor) {
		return uint8(232 + grayIdx)
	}
	return uint8(cube)
}

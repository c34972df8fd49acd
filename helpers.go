package yandexhome

import "math"

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// RGB converts an hsv value (h in degrees, s and v in percent) to a packed
// 0xRRGGBB integer as used by the rgb instance.
func (c HSV) RGB() int {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	s := clampPercent(c.S)
	v := clampPercent(c.V)

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return toByte(r+m)<<16 | toByte(g+m)<<8 | toByte(b+m)
}

// RGBToHSV converts a packed 0xRRGGBB integer to an hsv value.
func RGBToHSV(rgb int) HSV {
	r := float64(rgb>>16&0xff) / 255
	g := float64(rgb>>8&0xff) / 255
	b := float64(rgb&0xff) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case maxC == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxC > 0 {
		s = delta / maxC
	}

	return HSV{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		V: int(math.Round(maxC * 100)),
	}
}

// ClampTemperatureK limits kelvin to the range a light declares. A nil
// range leaves kelvin unchanged.
func ClampTemperatureK(kelvin int, r *TemperatureKRange) int {
	if r == nil {
		return kelvin
	}
	return min(max(kelvin, r.Min), r.Max)
}

// ClampRange limits value to the bounds of a range capability and rounds it
// to the declared precision.
func ClampRange(value float64, b *RangeBounds) float64 {
	if b == nil {
		return value
	}
	value = math.Min(math.Max(value, b.Min), b.Max)
	if b.Precision > 0 {
		value = b.Min + math.Round((value-b.Min)/b.Precision)*b.Precision
		value = math.Min(value, b.Max)
	}
	return value
}

func clampPercent(p int) float64 {
	return float64(min(max(p, 0), 100)) / 100
}

func toByte(f float64) int {
	return int(math.Round(min(max(f, 0), 1) * 255))
}

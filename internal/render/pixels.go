package render

import "image/color"

// OccupiedThreshold is the lowest value drawn as occupied.
const OccupiedThreshold = 50

func occupied(v int8) bool { return v >= OccupiedThreshold }

// fillOccupancyRGBA converts occupancy values into RGBA pixels in buf: values
// at or above OccupiedThreshold use on, other known values use off and
// negative (unknown) values use unknown.
func fillOccupancyRGBA(buf []byte, data []int8, on, off, unknown color.Color) {
	pOn, pOff, pUnknown := rgba(on), rgba(off), rgba(unknown)
	for i, v := range data {
		p := pOff
		switch {
		case v < 0:
			p = pUnknown
		case occupied(v):
			p = pOn
		}
		copy(buf[i*4:i*4+4], p[:])
	}
}

// fillChangeRGBA marks cells that became occupied between prev and cur with
// born and cells that were vacated with died. Everything else is left fully
// transparent. Mismatched lengths clear the buffer.
func fillChangeRGBA(buf []byte, prev, cur []int8, born, died color.Color) {
	for i := range buf {
		buf[i] = 0
	}
	if len(prev) != len(cur) {
		return
	}
	pBorn, pDied := rgba(born), rgba(died)
	for i := range cur {
		was, is := occupied(prev[i]), occupied(cur[i])
		switch {
		case is && !was:
			copy(buf[i*4:i*4+4], pBorn[:])
		case was && !is:
			copy(buf[i*4:i*4+4], pDied[:])
		}
	}
}

func rgba(c color.Color) [4]byte {
	r, g, b, a := c.RGBA()
	return [4]byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

package sound

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep"
)

// RenderPCM drains s (at most max samples; max <= 0 means until the stream
// ends) into signed 16-bit little-endian stereo, the layout ebiten's audio
// players consume.
func RenderPCM(s beep.Streamer, max int) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	total := 0
	for max <= 0 || total < max {
		chunk := buf
		if max > 0 && max-total < len(chunk) {
			chunk = chunk[:max-total]
		}
		n, ok := s.Stream(chunk)
		for _, frame := range chunk[:n] {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(frame[0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(frame[1])))
		}
		total += n
		if !ok {
			break
		}
	}
	return out
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}

// SPDX-License-Identifier: EPL-2.0

package utils

// Clip limits x to the canonical sample range [-1, 1].
func Clip(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Float32ToInt16 clamps x to [-1, 1], scales it by the positive int16 maximum
// and truncates toward zero. -1.0 therefore maps to -32767, not -32768.
func Float32ToInt16(x float32) int16 {
	return int16(Clip(x) * 32767.0)
}

// Int16ToFloat32 scales v into [-1, 1] using the true signed range: positive
// values are divided by 32767 and the rest by 32768, so math.MinInt16 maps
// to exactly -1.0 and no offset is introduced around zero.
func Int16ToFloat32(v int16) float32 {
	if v > 0 {
		return float32(v) / 32767.0
	}
	return float32(v) / 32768.0
}

// IntToFloat32 is Int16ToFloat32 generalized to any signed bit depth up to 32.
// Decoders that hand out wide integers (AIFF, WAV 24-bit) use it.
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	maxPositive := float64(int64(1)<<(bitDepth-1) - 1)
	if v > 0 {
		return float32(float64(v) / maxPositive)
	}
	return float32(float64(v) / (maxPositive + 1))
}

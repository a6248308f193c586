package objstore

import "math"

func mathFloatBits(f float64) uint64    { return math.Float64bits(f) }
func mathFloatFromBits(b uint64) float64 { return math.Float64frombits(b) }

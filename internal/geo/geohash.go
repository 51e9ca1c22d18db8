package geo

import "github.com/dastarkhwan/backend/internal/domain"

// Lightweight base32 geohash encoder, used for verdict cache keys.
// 6 characters resolve to roughly 1.2 km cells.
var geohashBase32 = []rune("0123456789bcdefghjkmnpqrstuvwxyz")

// Geohash encodes a coordinate to the given precision
func Geohash(c domain.Coordinate, precision int) string {
	latInt := [2]float64{-90, 90}
	lngInt := [2]float64{-180, 180}
	bits := [5]int{16, 8, 4, 2, 1}
	bit := 0
	ch := 0
	even := true
	out := make([]rune, 0, precision)
	for len(out) < precision {
		if even {
			mid := (lngInt[0] + lngInt[1]) / 2
			if c.Lng >= mid {
				ch |= bits[bit]
				lngInt[0] = mid
			} else {
				lngInt[1] = mid
			}
		} else {
			mid := (latInt[0] + latInt[1]) / 2
			if c.Lat >= mid {
				ch |= bits[bit]
				latInt[0] = mid
			} else {
				latInt[1] = mid
			}
		}
		even = !even
		if bit < 4 {
			bit++
		} else {
			out = append(out, geohashBase32[ch])
			bit = 0
			ch = 0
		}
	}
	return string(out)
}

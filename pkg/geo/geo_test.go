package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Run("One Degree Of Longitude At Equator", func(t *testing.T) {
		d := HaversineKm(Point{0, 0}, Point{0, 1})
		assert.InDelta(t, 111.19, d, 0.5)
	})

	t.Run("Identical Points", func(t *testing.T) {
		p := Point{Latitude: -1.2921, Longitude: 36.8219} // Nairobi CBD
		assert.Equal(t, 0.0, HaversineKm(p, p))
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Point{Latitude: -1.2921, Longitude: 36.8219}
		b := Point{Latitude: -1.3032, Longitude: 36.8880}
		assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
	})
}

func TestPathLengthKm(t *testing.T) {
	t.Run("Empty And Single Point", func(t *testing.T) {
		assert.Equal(t, 0.0, PathLengthKm(nil))
		assert.Equal(t, 0.0, PathLengthKm([]Point{{0, 0}}))
	})

	t.Run("Sums Consecutive Segments", func(t *testing.T) {
		points := []Point{{0, 0}, {0, 0.5}, {0, 1}}
		assert.InDelta(t, 111.19, PathLengthKm(points), 0.5)
	})

	t.Run("Repeated Points Contribute Nothing", func(t *testing.T) {
		points := []Point{{0, 0}, {0, 0}, {0, 1}, {0, 1}}
		assert.InDelta(t, 111.19, PathLengthKm(points), 0.5)
	})
}

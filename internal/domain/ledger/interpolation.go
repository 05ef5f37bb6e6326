// Package ledger holds the station's stock and sales arithmetic. Every function
// here is pure: callers pass immutable snapshots and persist the results.
package ledger

import (
	"math"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// VolumeFromDip converts a dip reading in centimeters into litres using a DIP
// chart sorted ascending by dip. Readings below the chart yield 0 and readings
// above it are clamped to the last volume; an empty chart yields 0.
func VolumeFromDip(dip float64, table models.CalibrationTable) float64 {
	if len(table) == 0 {
		return 0
	}

	var lower, upper *models.CalibrationPoint
	for i := range table {
		p := &table[i]
		if p.Dip <= dip {
			lower = p
		}
		if upper == nil && p.Dip >= dip {
			upper = p
		}
	}

	switch {
	case lower == nil:
		return 0
	case upper == nil:
		return table[len(table)-1].Volume
	case lower.Dip == upper.Dip:
		return lower.Volume
	}

	ratio := (dip - lower.Dip) / (upper.Dip - lower.Dip)
	return math.Round(lower.Volume + ratio*(upper.Volume-lower.Volume))
}

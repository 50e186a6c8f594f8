// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package regio

// Kind selects which full-scale table applies when converting a raw axis value to physical
// units. The set is closed: inertial sensors of the family targeted here expose exactly an
// accelerometer table in g and a gyroscope table in degrees per second.
type Kind int

const (
	Accel Kind = iota // full scale in g
	Gyro              // full scale in °/s
)

// Full-scale range magnitude per 2-bit selector, as programmed into the ACCEL_CONFIG and
// GYRO_CONFIG FS_SEL fields.
var (
	accelRanges = [4]float64{2, 4, 8, 16}
	gyroRanges  = [4]float64{250, 500, 1000, 2000}
)

// FullScale converts a raw 16-bit axis reading to physical units given the 2-bit full-scale
// selector the sensor is configured with. The raw value spans the full signed 16-bit range
// over ±range, so value = raw/32768*range. The selector space is two bits; a selector above
// 3, or a Kind outside the closed set, fails with an InvalidSelectorError. That can only
// happen when the selector comes from an unvalidated source such as a config file, correct
// callers never see it.
func FullScale(raw int16, sel byte, kind Kind) (float64, error) {
	var ranges *[4]float64
	switch kind {
	case Accel:
		ranges = &accelRanges
	case Gyro:
		ranges = &gyroRanges
	default:
		return 0, &InvalidSelectorError{Selector: sel, Kind: kind}
	}
	if sel > 3 {
		return 0, &InvalidSelectorError{Selector: sel, Kind: kind}
	}
	return float64(raw) / 32768 * ranges[sel], nil
}

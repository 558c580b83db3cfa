// Package sensor holds register-map drivers for the motion sensors
// wired to the i2c bus: ADXL345 accelerometer, HMC5883 magnetometer,
// ITG3205 gyroscope. Drivers translate calls into register traffic
// per the datasheets and return raw counts; scaling to physical units
// is up to the application.
package sensor

// XYZ is one raw three-axis sample in device counts.
type XYZ struct {
	X, Y, Z int16
}

func le16(lo, hi byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }
func be16(hi, lo byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }

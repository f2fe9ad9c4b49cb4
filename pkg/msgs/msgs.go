// Package msgs defines the message shapes exchanged over the bus. Field
// layout follows the std_msgs, geometry_msgs, nav_msgs and sensor_msgs
// definitions so consumers expecting those formats can read them directly.
package msgs

import "time"

// Type names carried by publishers and subscriptions.
const (
	TypeString        = "std_msgs/msg/String"
	TypeOccupancyGrid = "nav_msgs/msg/OccupancyGrid"
	TypeLaserScan     = "sensor_msgs/msg/LaserScan"
)

// Occupancy cell values.
const (
	Occupied int8 = 100
	Free     int8 = 0
	Unknown  int8 = -1
)

// Time is a stamp split into seconds and nanoseconds.
type Time struct {
	Sec     int32
	Nanosec uint32
}

// TimeFrom converts a time.Time into a stamp.
func TimeFrom(t time.Time) Time {
	return Time{Sec: int32(t.Unix()), Nanosec: uint32(t.Nanosecond())}
}

// Std converts the stamp back into a time.Time.
func (t Time) Std() time.Time {
	return time.Unix(int64(t.Sec), int64(t.Nanosec))
}

// Header carries the frame and stamp of a message.
type Header struct {
	Stamp   Time
	FrameID string
}

// Point is a position in 3D space.
type Point struct {
	X, Y, Z float64
}

// Quaternion is an orientation in 3D space.
type Quaternion struct {
	X, Y, Z, W float64
}

// Pose combines a position and an orientation.
type Pose struct {
	Position    Point
	Orientation Quaternion
}

// IdentityPose is the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: Quaternion{W: 1}}
}

// MapMetaData describes the geometry of an OccupancyGrid.
type MapMetaData struct {
	MapLoadTime Time
	Resolution  float32
	Width       uint32
	Height      uint32
	Origin      Pose
}

// OccupancyGrid is a row-major 2D grid of occupancy values in [0,100], with
// -1 for unknown.
type OccupancyGrid struct {
	Header Header
	Info   MapMetaData
	Data   []int8
}

// At returns the value at (row, column), or Unknown when out of range.
func (g *OccupancyGrid) At(row, column int) int8 {
	w, h := int(g.Info.Width), int(g.Info.Height)
	if row < 0 || row >= h || column < 0 || column >= w {
		return Unknown
	}
	idx := row*w + column
	if idx >= len(g.Data) {
		return Unknown
	}
	return g.Data[idx]
}

// String is a plain text message.
type String struct {
	Data string
}

// LaserScan is a single planar range-finder sweep.
type LaserScan struct {
	Header         Header
	AngleMin       float32
	AngleMax       float32
	AngleIncrement float32
	TimeIncrement  float32
	ScanTime       float32
	RangeMin       float32
	RangeMax       float32
	Ranges         []float32
	Intensities    []float32
}

// TypeOf returns the type name of a message value, or "" when msg is not one
// of the shapes defined here.
func TypeOf(msg any) string {
	switch msg.(type) {
	case *String, String:
		return TypeString
	case *OccupancyGrid, OccupancyGrid:
		return TypeOccupancyGrid
	case *LaserScan, LaserScan:
		return TypeLaserScan
	}
	return ""
}

package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// YawToRotationMatrix returns the 3×3 rotation about the world Z axis for
// the given yaw (radians):
//
//	[ cos  sin  0 ]
//	[-sin  cos  0 ]
//	[  0    0   1 ]
func YawToRotationMatrix(yaw float64) *mat.Dense {
	sin, cos := math.Sincos(yaw)
	return mat.NewDense(3, 3, []float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
}

package fixed

// Angles are Scalars measured in degrees.

// sinTable holds sin(d) for whole degrees 0..90, scaled by One.
var sinTable = [91]Scalar{
	0, 1144, 2287, 3430, 4572, 5712, 6850, 7987,
	9121, 10252, 11380, 12505, 13626, 14742, 15855, 16962,
	18064, 19161, 20252, 21336, 22415, 23486, 24550, 25607,
	26656, 27697, 28729, 29753, 30767, 31772, 32768, 33754,
	34729, 35693, 36647, 37590, 38521, 39441, 40348, 41243,
	42126, 42995, 43852, 44695, 45525, 46341, 47143, 47930,
	48703, 49461, 50203, 50931, 51643, 52339, 53020, 53684,
	54332, 54963, 55578, 56175, 56756, 57319, 57865, 58393,
	58903, 59396, 59870, 60326, 60764, 61183, 61584, 61966,
	62328, 62672, 62997, 63303, 63589, 63856, 64104, 64332,
	64540, 64729, 64898, 65048, 65177, 65287, 65376, 65446,
	65496, 65526, 65536,
}

// Degree constants.
var (
	Deg90  = FromInt(90)
	Deg180 = FromInt(180)
	Deg270 = FromInt(270)
	Deg360 = FromInt(360)
)

// Sin returns the sine of an angle in degrees. The angle is rounded to the
// nearest whole degree and looked up in a one-quadrant table that is
// reflected and negated for the other three quadrants.
func Sin(deg Scalar) Scalar {
	d := Wrap(deg.Round(), 0, 360)
	switch {
	case d <= 90:
		return sinTable[d]
	case d <= 180:
		return sinTable[180-d]
	case d <= 270:
		return -sinTable[d-180]
	default:
		return -sinTable[360-d]
	}
}

// Cos returns the cosine of an angle in degrees.
func Cos(deg Scalar) Scalar {
	return Sin(deg + Deg90)
}

// Tan returns the tangent of an angle in degrees. At ±90° the cosine is
// replaced by NonZero and the result saturates toward the Scalar range.
func Tan(deg Scalar) Scalar {
	q := Div64(int64(Sin(deg)), int64(NonZero(Cos(deg))))
	return Scalar(Clamp(q, int64(Min), int64(Max)))
}

// Asin returns the arcsine of v in whole degrees, in [-90, 90].
// The table is scanned linearly for the nearest entry; this is meant for
// setup code, not per-pixel work.
func Asin(v Scalar) Scalar {
	neg := v < 0
	a := Clamp(Abs(v), 0, One)

	best := 0
	bestDist := Abs(sinTable[0] - a)
	for i := 1; i < len(sinTable); i++ {
		dist := Abs(sinTable[i] - a)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if neg {
		return -FromInt(best)
	}
	return FromInt(best)
}

// Acos returns the arccosine of v in whole degrees, in [0, 180].
func Acos(v Scalar) Scalar {
	return Deg90 - Asin(v)
}

// NormalizeAngle wraps deg into [0, 360).
func NormalizeAngle(deg Scalar) Scalar {
	return Wrap(deg, 0, Deg360)
}

package solar

import "math"

// AOI returns the angle of incidence in degrees between the sun and the
// normal of a surface with the given tilt and azimuth
func AOI(tilt, surfaceAzimuth float64, pos Position) float64 {
	cos := cosAOIRaw(tilt, surfaceAzimuth, pos)
	cos = math.Max(-1, math.Min(1, cos))
	return degrees(math.Acos(cos))
}

func cosAOIRaw(tilt, surfaceAzimuth float64, pos Position) float64 {
	z := radians(pos.ApparentZenith)
	t := radians(tilt)

	return math.Cos(t)*math.Cos(z) +
		math.Sin(t)*math.Sin(z)*
			math.Cos(radians(pos.Azimuth-surfaceAzimuth))
}

// CosAOI returns the cosine of the angle of incidence clipped to
// [0, 1]. Returns 0 when the sun is behind the panel or below the
// horizon, matching the night clipping of the production model.
func CosAOI(tilt, surfaceAzimuth float64, pos Position) float64 {
	if pos.ApparentZenith >= 90 {
		return 0
	}

	cos := cosAOIRaw(tilt, surfaceAzimuth, pos)
	if cos < 0 {
		return 0
	}

	return cos
}

// POAPowerKW projects horizontal irradiance onto the panel plane and
// applies system losses, returning generated power per rated kW.
// ghi is in W/m^2.
func POAPowerKW(ghi, cosAOI, losses float64) float64 {
	return ghi / 1000 * cosAOI * (1 - losses)
}

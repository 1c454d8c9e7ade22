package core

import "math"

// The values below are digitised from the Aquila AT01 (A210) flight manual
// charts, in the coordinate space of the scanned chart images. They are read
// only; every request shares them.

// Tailwind bands are identical on both charts as digitised.
// TODO: re-digitise the landing chart's tailwind lines; they share the takeoff y scale.
var tailwindBands = BandSet{
	{UpTo: 1640.891927, Band: Band{
		Low:  Segment{X0: 0, X1: 10, Y0: 1389.84375, Y1: 1525.84375},
		High: Segment{X0: 0, X1: 10, Y0: 1640.891927, Y1: 1867.0},
	}},
	{UpTo: 1958.915365, Band: Band{
		Low:  Segment{X0: 0, X1: 10, Y0: 1640.891927, Y1: 1867.0},
		High: Segment{X0: 0, X1: 10, Y0: 1958.915365, Y1: 2300.0},
	}},
	{UpTo: math.Inf(1), Band: Band{
		Low:  Segment{X0: 0, X1: 10, Y0: 1958.915365, Y1: 2300.0},
		High: Segment{X0: 0, X1: 10, Y0: 2262.979167, Y1: 2710.0},
	}},
}

// TakeoffDistance is the take-off distance chart (ground roll and distance
// to clear a 50 ft obstacle).
var TakeoffDistance = &Calibration{
	Chart: ChartTakeoff,
	Name:  "Take-off distance",
	OAT: OATGrid{
		MinOAT:       -30,
		BracketWidth: 10,
		XStart:       562.923177,
		XEnd:         2168.91276,
		Rows: []AltitudeRow{
			{AltitudeFt: 0, Y: [oatColumns]float64{
				1614.322917, 1656.315104, 1698.339844, 1742.317708,
				1788.313802, 1834.342448, 1882.324219, 1932.324219,
			}},
			{AltitudeFt: 2000, Y: [oatColumns]float64{
				1702.34375, 1750.325521, 1800.325521, 1850.325521,
				1902.34375, 1956.315104, 2010.31901, 2066.341146,
			}},
			{AltitudeFt: 4000, Y: [oatColumns]float64{
				1804.329427, 1860.31901, 1916.341146, 1974.316406,
				2034.342448, 2096.321615, 2160.31901, 2224.316406,
			}},
			{AltitudeFt: 6000, Y: [oatColumns]float64{
				1924.316406, 1988.313802, 2052.34375, 2120.345052,
				2190.332031, 2262.33724, 2334.342448, 2410.31901,
			}},
			{AltitudeFt: 8000, Y: [oatColumns]float64{
				2064.322917, 2138.313802, 2214.322917, 2292.317708,
				2372.330729, 2456.315104, 2540.332031, 2628.320313,
			}},
		},
	},
	Mass: MassCalibration{
		MaxKg:  750,
		MinKg:  550,
		XStart: 2367.122396,
		XEnd:   3777.246094,
		Bands: BandSet{
			{UpTo: math.Inf(1), Band: Band{
				Low:  Segment{X0: 0, X1: 200, Y0: 1632.03125, Y1: 1400.032552},
				High: Segment{X0: 0, X1: 200, Y0: 1718.033854, Y1: 1454.003906},
			}},
		},
	},
	Wind: WindCalibration{
		XStart:      3965.429687,
		XEnd:        5211.621094,
		FullScaleKt: 20,
		Headwind: Band{
			Low:  Segment{X0: 0, X1: 10, Y0: 1389.84375, Y1: 1303.841146},
			High: Segment{X0: 0, X1: 10, Y0: 1655.891927, Y1: 1507.877604},
		},
		StrongHeadwind: Band{
			Low:  Segment{X0: 0, X1: 5, Y0: 1303.841146, Y1: 1269.856771},
			High: Segment{X0: 0, X1: 5, Y0: 1507.877604, Y1: 1449.869792},
		},
		BeyondHeadwind: Band{
			Low:  Segment{X0: 0, X1: 5, Y0: 1269.856771, Y1: 1243.847656},
			High: Segment{X0: 0, X1: 5, Y0: 1449.869792, Y1: 1407.845052},
		},
		Tailwind: tailwindBands,
	},
	Distance: DistanceCalibration{
		Obstacle: Segment{X0: 1395.703125, X1: 1491.731771, Y0: 1727.766927, Y1: 1905.794271},
		AtWind: BracketScale{Kind: GroundRoll, Brackets: []float64{
			1395.703125, 1491.731771, 1587.727865, 1683.75651, 1779.785156,
			1877.799479, 1973.795573, 2069.824219, 2165.852865, 2261.848958,
			2359.895833, 2455.891927, 2551.920573, 2655.924479,
		}},
		AtObstacle: BracketScale{Kind: TotalDistance, Brackets: []float64{
			1727.766927, 1905.794271, 2085.839844, 2265.852865, 2443.880208,
			2623.925781, 2803.938802, 2983.984375, 3162.011719, 3342.057292,
			3522.070313, 3700.097656, 3880.143229, 4076.171875,
		}},
		YStart:     1009.635417,
		YEnd:       4222.200521,
		FullScaleM: 1000,
	},
}

// LandingDistance is the landing distance chart (ground roll and distance
// from a 50 ft obstacle to a full stop).
var LandingDistance = &Calibration{
	Chart: ChartLanding,
	Name:  "Landing distance",
	OAT: OATGrid{
		MinOAT:       -30,
		BracketWidth: 10,
		XStart:       562.923177,
		XEnd:         1870.93099,
		Rows: []AltitudeRow{
			{AltitudeFt: 0, Y: [oatColumns]float64{
				1902.34375, 1948.339844, 1994.335938, 2042.317708,
				2090.332031, 2136.328125, 2184.342448, 2234.342448,
			}},
			{AltitudeFt: 2000, Y: [oatColumns]float64{
				2002.34375, 2054.329427, 2104.329427, 2158.333333,
				2210.31901, 2262.33724, 2316.341146, 2370.345052,
			}},
			{AltitudeFt: 4000, Y: [oatColumns]float64{
				2114.322917, 2172.330729, 2228.320313, 2286.328125,
				2344.335938, 2404.329427, 2462.33724, 2522.330729,
			}},
			{AltitudeFt: 6000, Y: [oatColumns]float64{
				2242.317708, 2304.329427, 2368.326823, 2432.324219,
				2498.339844, 2562.33724, 2628.320313, 2694.335938,
			}},
			{AltitudeFt: 8000, Y: [oatColumns]float64{
				2384.342448, 2454.329427, 2526.334635, 2598.339844,
				2670.345052, 2742.317708, 2814.322917, 2888.313802,
			}},
		},
	},
	Mass: MassCalibration{
		MaxKg:  750,
		MinKg:  550,
		XStart: 2077.115885,
		XEnd:   3263.216146,
		Bands: BandSet{
			{UpTo: 2002.083333, Band: Band{
				Low:  Segment{X0: 0, X1: 200, Y0: 1906.054688, Y1: 1796.061198},
				High: Segment{X0: 0, X1: 200, Y0: 2002.083333, Y1: 1882.063802},
			}},
			{UpTo: 2112.076823, Band: Band{
				Low:  Segment{X0: 0, X1: 200, Y0: 2002.083333, Y1: 1882.063802},
				High: Segment{X0: 0, X1: 200, Y0: 2112.076823, Y1: 1978.059896},
			}},
			{UpTo: 2232.096354, Band: Band{
				Low:  Segment{X0: 0, X1: 200, Y0: 2112.076823, Y1: 1978.059896},
				High: Segment{X0: 0, X1: 200, Y0: 2232.096354, Y1: 2074.088542},
			}},
			{UpTo: math.Inf(1), Band: Band{
				Low:  Segment{X0: 0, X1: 200, Y0: 2232.096354, Y1: 2074.088542},
				High: Segment{X0: 0, X1: 200, Y0: 2368.098958, Y1: 2192.089844},
			}},
		},
	},
	Wind: WindCalibration{
		XStart:      3439.388021,
		XEnd:        4933.561198,
		FullScaleKt: 20,
		Headwind: Band{
			Low:  Segment{X0: 0, X1: 10, Y0: 1787.923177, Y1: 1599.902344},
			High: Segment{X0: 0, X1: 10, Y0: 2173.958333, Y1: 1897.916667},
		},
		StrongHeadwind: Band{
			Low:  Segment{X0: 0, X1: 5, Y0: 1599.902344, Y1: 1527.864583},
			High: Segment{X0: 0, X1: 5, Y0: 1897.916667, Y1: 1791.894531},
		},
		BeyondHeadwind: Band{
			Low:  Segment{X0: 0, X1: 5, Y0: 1527.864583, Y1: 1471.875},
			High: Segment{X0: 0, X1: 5, Y0: 1791.894531, Y1: 1709.895833},
		},
		Tailwind: tailwindBands,
	},
	Distance: DistanceCalibration{
		Obstacle: Segment{X0: 1467.545573, X1: 1631.608073, Y0: 1171.484375, Y1: 1241.503906},
		AtWind: BracketScale{Kind: TotalDistance, Brackets: []float64{
			1467.545573, 1631.608073, 1797.65625, 1961.686198, 2125.716146,
			2289.746094, 2453.776042, 2617.80599, 2781.835938, 2947.884115,
			3111.914063, 3275.94401, 3440.00651,
		}},
		AtObstacle: BracketScale{Kind: GroundRoll, Brackets: []float64{
			1171.484375, 1241.503906, 1309.53776, 1379.557292, 1447.558594,
			1517.578125, 1585.579427, 1653.613281, 1723.632813, 1791.634115,
			1861.653646, 1929.654948, 1999.674479,
		}},
		YStart:     965.46224,
		YEnd:       3261.946615,
		FullScaleM: 1000,
	},
}

package windcorr

import "math"

//--------------------------------------
// 物理定数・計測誤差
//--------------------------------------

const (
	MolarMassAir = 28.9647e-3                 // 乾燥空気のモル質量 [kg/mol]
	GasConstant  = 8.314462618                // 気体定数 [J/(mol K)]
	KelvinOffset = 273.15                     // [℃] -> [K]
	Rd           = GasConstant / MolarMassAir // 乾燥空気の気体定数 [J/(kg K)]
)

// 既定の計測誤差 (1σ)。registry.yaml の既定値と一致させること。
const (
	ErrTrisonicaP   = 1000.0 // 気圧 [Pa]
	ErrTrisonicaT   = 2.0    // 気温 [℃]
	ErrTrisonicaUm  = 200e-3 // [m/s]
	ErrTrisonicaVm  = 200e-3 // [m/s]
	ErrTrisonicaWm  = 200e-3 // [m/s]
	ErrTrisonicaPhi = 0.20   // 取付方位 [rad]

	ErrM600PVx  = 0.05 // [m/s]
	ErrM600PVy  = 0.05 // [m/s]
	ErrM600PPhi = 0.05 // 機首方位 [rad]
)

// NoData は欠測値を表します。すべての float64 フィールドで共通です。
var NoData = math.NaN()

// 無風 (風速 0) の場合に返される風向
const CalmDirection = -1.0

// IsNoData は x が欠測値かどうかを返します。
func IsNoData(x float64) bool {
	return math.IsNaN(x)
}

func anyNoData(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

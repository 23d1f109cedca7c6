package windcorr

import "math"

//--------------------------------------
// 空気密度
//--------------------------------------

// 理想気体の状態方程式から空気密度 [kg/m3] を計算する
// P: 気圧 [Pa], T: 気温 [℃]
func AirDensity(P, T float64) float64 {
	return airDensity(P, T, MolarMassAir, GasConstant)
}

func airDensity(P, T, molarMass, gasConstant float64) float64 {
	if anyNoData(P, T) {
		return NoData
	}
	TK := T + KelvinOffset
	if TK <= 0 {
		return NoData
	}
	return P * molarMass / (gasConstant * TK)
}

// AirDensitySigma は誤差プロファイル p の気圧・気温誤差から空気密度とその誤差を計算します。
//
//	ρ = P M / (R T)
//	∂ρ/∂P = ρ / P,  ∂ρ/∂T = -ρ / T
func AirDensitySigma(P, T float64, p *ErrorProfile) (rho float64, sigma float64, err error) {
	sP, err := p.Sigma(QtyPressure)
	if err != nil {
		return NoData, NoData, err
	}
	sT, err := p.Sigma(QtyTemperature)
	if err != nil {
		return NoData, NoData, err
	}

	rho = airDensity(P, T, p.MolarMassAir, p.GasConstant)
	if IsNoData(rho) || P == 0 {
		return rho, NoData, nil
	}
	TK := T + KelvinOffset
	dP := rho / P
	dT := -rho / TK
	return rho, math.Sqrt(dP*dP*sP*sP + dT*dT*sT*sT), nil
}

// SpeedCorrector は密度・動圧などによる風ベクトルの追加補正の差し込み口です。
// Pipeline は Correct の直後、Reconcile の前に呼び出します。
// 既定では使用しません (補正式が確定していないため)。
type SpeedCorrector interface {
	CorrectSpeed(s Sample, p *ErrorProfile) (U float64, V float64)
}

// SpeedCorrectorFunc は関数を SpeedCorrector として使うためのアダプタです。
type SpeedCorrectorFunc func(s Sample, p *ErrorProfile) (float64, float64)

func (f SpeedCorrectorFunc) CorrectSpeed(s Sample, p *ErrorProfile) (float64, float64) {
	return f(s, p)
}

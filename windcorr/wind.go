// Package windcorr は機体搭載の風速計で計測した風ベクトルから機体自身の運動を除去し、
// 地球座標の風ベクトルと計測誤差の伝播を計算します。
//
// 座標系:
//
//	U: 東向き正, V: 北向き正 (地球座標)
//	Um, Vm: 風速計の計測値 (機体座標)。機首方位 Phi [rad] で回転して地球座標に変換する。
//	風向は気象の慣例に従い「風が吹いてくる方位」を北 0°、東 90° で表す。
package windcorr

import (
	"math"
)

//--------------------------------------
// 風速風向計算
//--------------------------------------

// 機体座標の計測風ベクトル (Um, Vm) を機首方位 phi で地球座標へ回転し、
// 機体速度 (Vx, Vy) を差し引いて補正後の風ベクトル (U, V) を計算する。
// いずれかの入力が欠測の場合は U, V ともに NoData を返す。
func Correct(Um, Vm, Vx, Vy, phi float64) (U float64, V float64) {
	if anyNoData(Um, Vm, Vx, Vy, phi) {
		return NoData, NoData
	}
	sin, cos := math.Sincos(phi)
	U = Um*cos - Vm*sin - Vx
	V = Um*sin + Vm*cos - Vy
	return U, V
}

// Correct の逆変換。補正後の風ベクトルに機体速度を加え、機体座標へ戻す。
func Uncorrect(U, V, Vx, Vy, phi float64) (Um float64, Vm float64) {
	if anyNoData(U, V, Vx, Vy, phi) {
		return NoData, NoData
	}
	sin, cos := math.Sincos(phi)
	ue := U + Vx
	ve := V + Vy
	Um = ue*cos + ve*sin
	Vm = -ue*sin + ve*cos
	return Um, Vm
}

// ベクトル風速 U, V から風速を計算する
func Magnitude(U, V float64) float64 {
	if anyNoData(U, V) {
		return NoData
	}
	// 三平方の定理
	return math.Hypot(U, V)
}

// ベクトル風速 U (東西のベクトル成分), V (南北のベクトル成分) から
// 風速 w_spd と風向 w_dir [°] を計算する。
// 風向は 0 <= w_dir < 360。風速 0 の場合は CalmDirection を返す。
func WrapWindDir(U, V float64) (w_spd float64, w_dir float64) {
	if anyNoData(U, V) {
		return NoData, NoData
	}

	w_spd = math.Hypot(U, V)
	if w_spd == 0 {
		return 0, CalmDirection
	}

	// 東西、南北のベクトル成分から風向を計算
	w_dir = radToDegree(math.Atan2(U, V) + math.Pi)
	w_dir = math.Mod(w_dir, 360.0)
	if w_dir < 0 {
		w_dir += 360.0
	}
	return w_spd, w_dir
}

// ベクトル風速 U, V から16方位の風速 w_spd16 と 風向 w_dir16 を計算する
// 風速は16方位へ丸めた風向への射影。無風の場合は (0, CalmDirection)。
func Wind16(U float64, V float64) (w_spd16 float64, w_dir16 float64) {
	w_spd, w_dir := WrapWindDir(U, V)
	if IsNoData(w_spd) || w_dir == CalmDirection {
		return w_spd, w_dir
	}

	// 16方位への丸め処理
	w_dir16 = math.Round(w_dir/22.5) * 22.5
	w_dir16_gap := math.Abs(w_dir16 - w_dir)
	w_spd16 = math.Cos(degreeToRad(w_dir16_gap)) * w_spd
	if w_dir16 == 360.0 {
		w_dir16 = 0
	}

	return w_spd16, w_dir16
}

// 風向 w_dir [°] の16方位番号 (1:NNE,...,16:N)。無風・欠測は 0。
func Sector16(w_dir float64) int {
	if IsNoData(w_dir) || w_dir == CalmDirection {
		return 0
	}
	n := int(math.Round(w_dir/22.5)) % 16
	if n == 0 {
		// 真北の場合を0から16へ変更
		n = 16
	}
	return n
}

func radToDegree(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func degreeToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

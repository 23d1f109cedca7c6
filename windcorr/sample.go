package windcorr

import (
	"strings"
	"time"
)

// Flags は値の由来 (補正値/計測値による代替) と特殊条件を記録します。
type Flags uint8

const (
	FlagFallbackU       Flags = 1 << iota // U が欠測のため Um で代替
	FlagFallbackV                         // V が欠測のため Vm で代替
	FlagMeasuredFromU                     // Um が欠測のため U で代替
	FlagMeasuredFromV                     // Vm が欠測のため V で代替
	FlagDegenerate                        // 風速 0 のため風向・誤差が定義されない
	FlagDensityCorrected                  // SpeedCorrector による補正済み
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagFallbackU, "fallbackU"},
	{FlagFallbackV, "fallbackV"},
	{FlagMeasuredFromU, "measuredFromU"},
	{FlagMeasuredFromV, "measuredFromV"},
	{FlagDegenerate, "degenerate"},
	{FlagDensityCorrected, "densityCorrected"},
}

// Has は f のすべてのビットが立っているかどうかを返します。
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	var names []string
	for _, n := range flagNames {
		if f.Has(n.f) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseFlags は String の出力を Flags に戻します。未知の名前は無視します。
func ParseFlags(s string) Flags {
	var f Flags
	for _, part := range strings.Split(s, "|") {
		for _, n := range flagNames {
			if part == n.name {
				f |= n.f
			}
		}
	}
	return f
}

// Sample は時刻ごとの機体運動と風速計の計測値、および補正結果です。
// 欠測はすべて NoData (NaN) で表します。
type Sample struct {
	Timestamp time.Time

	Vx  float64 // 機体速度 東向き成分 (地球座標) [m/s]
	Vy  float64 // 機体速度 北向き成分 (地球座標) [m/s]
	Phi float64 // 機首方位 [rad]

	Um float64 // 風速計 計測値 (機体座標) [m/s]
	Vm float64 // [m/s]
	Wm float64 // 鉛直成分 [m/s]

	P float64 // 気圧 [Pa]
	T float64 // 気温 [℃]

	Sts float64 // 飛行状態 (>0 で飛行中)。補正計算では参照しない

	U   float64 // 補正後 東西成分 (地球座標) [m/s]
	V   float64 // 補正後 南北成分 (地球座標) [m/s]
	S   float64 // 風速 [m/s]
	Dir float64 // 風向 [°] (0 <= Dir < 360, 無風は CalmDirection)

	SigmaU   float64 // [m/s]
	SigmaV   float64 // [m/s]
	SigmaS   float64 // [m/s]
	SigmaDir float64 // [°]

	Flags Flags
}

// NewSample は計測値以外をすべて NoData で初期化した Sample を返します。
func NewSample(ts time.Time) Sample {
	return Sample{
		Timestamp: ts,
		Vx:        NoData,
		Vy:        NoData,
		Phi:       NoData,
		Um:        NoData,
		Vm:        NoData,
		Wm:        NoData,
		P:         NoData,
		T:         NoData,
		Sts:       NoData,
		U:         NoData,
		V:         NoData,
		S:         NoData,
		Dir:       NoData,
		SigmaU:    NoData,
		SigmaV:    NoData,
		SigmaS:    NoData,
		SigmaDir:  NoData,
	}
}

// Airborne は飛行中かどうかを返します。描画側の区間分けのためのもので、補正計算では使用しません。
func (s Sample) Airborne() bool {
	return !IsNoData(s.Sts) && s.Sts > 0
}

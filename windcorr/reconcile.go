package windcorr

//--------------------------------------
// 欠測値の補完
//--------------------------------------

// Reconcile は補正値と計測値の一方だけが欠測している軸を、もう一方の値で補完します。
//
//   - 補正値 U が欠測で計測値 Um がある場合: U = Um (FlagFallbackU)
//   - 計測値 Um が欠測で補正値 U がある場合: Um = U (FlagMeasuredFromU)
//   - 両方欠測の場合は欠測のまま
//
// V/Vm も同様。判定はサンプルごと・軸ごとに独立して行い、他の軸には影響しません。
func Reconcile(s Sample) Sample {
	s.U, s.Um, s.Flags = reconcileAxis(s.U, s.Um, s.Flags, FlagFallbackU, FlagMeasuredFromU)
	s.V, s.Vm, s.Flags = reconcileAxis(s.V, s.Vm, s.Flags, FlagFallbackV, FlagMeasuredFromV)
	return s
}

func reconcileAxis(corrected, measured float64, flags, fallback, measuredFrom Flags) (float64, float64, Flags) {
	switch {
	case IsNoData(corrected) && !IsNoData(measured):
		return measured, measured, flags | fallback
	case !IsNoData(corrected) && IsNoData(measured):
		return corrected, corrected, flags | measuredFrom
	default:
		return corrected, measured, flags
	}
}

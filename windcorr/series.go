package windcorr

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 出力列名。描画側はこの名前で列を参照するため、変更しないこと。
const (
	ColTimestamp = "Timestamp"
	ColSts       = "Sts"
	ColVx        = "Vx"
	ColVy        = "Vy"
	ColPhi       = "Phi"
	ColUm        = "Um"
	ColVm        = "Vm"
	ColWm        = "Wm"
	ColU         = "U"
	ColV         = "V"
	ColS         = "S"
	ColDir       = "Dir"
	ColSigmaU    = "SigmaU"
	ColSigmaV    = "SigmaV"
	ColSigmaS    = "SigmaS"
	ColSigmaDir  = "SigmaDir"
	ColFlags     = "Flags"
)

// Columns は出力列の並び順です。
var Columns = []string{
	ColTimestamp, ColSts,
	ColVx, ColVy, ColPhi,
	ColUm, ColVm, ColWm,
	ColU, ColV, ColS, ColDir,
	ColSigmaU, ColSigmaV, ColSigmaS, ColSigmaDir,
	ColFlags,
}

// 補正結果データ (列形式)
type Series struct {
	Timestamp []time.Time

	Sts []float64 // 飛行状態

	Vx  []float64 // 機体速度 東向き [m/s]
	Vy  []float64 // 機体速度 北向き [m/s]
	Phi []float64 // 機首方位 [rad]

	Um []float64 // 計測値 [m/s]
	Vm []float64
	Wm []float64

	U   []float64 // 補正値 [m/s]
	V   []float64
	S   []float64 // 風速 [m/s]
	Dir []float64 // 風向 [°]

	SigmaU   []float64
	SigmaV   []float64
	SigmaS   []float64
	SigmaDir []float64

	Flags []Flags
}

// NewSeries は samples から列形式のデータを作成します。
func NewSeries(samples []Sample) *Series {
	n := len(samples)
	ser := &Series{
		Timestamp: make([]time.Time, n),
		Sts:       make([]float64, n),
		Vx:        make([]float64, n),
		Vy:        make([]float64, n),
		Phi:       make([]float64, n),
		Um:        make([]float64, n),
		Vm:        make([]float64, n),
		Wm:        make([]float64, n),
		U:         make([]float64, n),
		V:         make([]float64, n),
		S:         make([]float64, n),
		Dir:       make([]float64, n),
		SigmaU:    make([]float64, n),
		SigmaV:    make([]float64, n),
		SigmaS:    make([]float64, n),
		SigmaDir:  make([]float64, n),
		Flags:     make([]Flags, n),
	}
	for i, s := range samples {
		ser.Timestamp[i] = s.Timestamp
		ser.Sts[i] = s.Sts
		ser.Vx[i] = s.Vx
		ser.Vy[i] = s.Vy
		ser.Phi[i] = s.Phi
		ser.Um[i] = s.Um
		ser.Vm[i] = s.Vm
		ser.Wm[i] = s.Wm
		ser.U[i] = s.U
		ser.V[i] = s.V
		ser.S[i] = s.S
		ser.Dir[i] = s.Dir
		ser.SigmaU[i] = s.SigmaU
		ser.SigmaV[i] = s.SigmaV
		ser.SigmaS[i] = s.SigmaS
		ser.SigmaDir[i] = s.SigmaDir
		ser.Flags[i] = s.Flags
	}
	return ser
}

func (ser *Series) Len() int {
	return len(ser.Timestamp)
}

// Sample は i 番目の行を Sample として返します。気圧・気温は保持しないため NoData です。
func (ser *Series) Sample(i int) Sample {
	s := NewSample(ser.Timestamp[i])
	s.Sts = ser.Sts[i]
	s.Vx = ser.Vx[i]
	s.Vy = ser.Vy[i]
	s.Phi = ser.Phi[i]
	s.Um = ser.Um[i]
	s.Vm = ser.Vm[i]
	s.Wm = ser.Wm[i]
	s.U = ser.U[i]
	s.V = ser.V[i]
	s.S = ser.S[i]
	s.Dir = ser.Dir[i]
	s.SigmaU = ser.SigmaU[i]
	s.SigmaV = ser.SigmaV[i]
	s.SigmaS = ser.SigmaS[i]
	s.SigmaDir = ser.SigmaDir[i]
	s.Flags = ser.Flags[i]
	return s
}

// Column は列名 name の数値列を返します。Timestamp, Flags は数値列ではないため false です。
func (ser *Series) Column(name string) ([]float64, bool) {
	switch name {
	case ColSts:
		return ser.Sts, true
	case ColVx:
		return ser.Vx, true
	case ColVy:
		return ser.Vy, true
	case ColPhi:
		return ser.Phi, true
	case ColUm:
		return ser.Um, true
	case ColVm:
		return ser.Vm, true
	case ColWm:
		return ser.Wm, true
	case ColU:
		return ser.U, true
	case ColV:
		return ser.V, true
	case ColS:
		return ser.S, true
	case ColDir:
		return ser.Dir, true
	case ColSigmaU:
		return ser.SigmaU, true
	case ColSigmaV:
		return ser.SigmaV, true
	case ColSigmaS:
		return ser.SigmaS, true
	case ColSigmaDir:
		return ser.SigmaDir, true
	}
	return nil, false
}

// 開始日時 start から 終了日時 end まで (両端を含む) のデータを抜き出して新しい構造体を作成します。
// Timestamp は昇順に並んでいる必要があります。
func (ser *Series) Extract(start time.Time, end time.Time) *Series {
	start_index := sort.Search(ser.Len(), func(i int) bool {
		return !ser.Timestamp[i].Before(start)
	})
	end_index := sort.Search(ser.Len(), func(i int) bool {
		return ser.Timestamp[i].After(end)
	})
	if end_index < start_index {
		end_index = start_index
	}

	samples := make([]Sample, 0, end_index-start_index)
	for i := start_index; i < end_index; i++ {
		samples = append(samples, ser.Sample(i))
	}
	return NewSeries(samples)
}

// Summary は補正結果の集計です。
type Summary struct {
	Count      int
	Missing    int // 風速が求まらなかったサンプル数
	FallbackU  int
	FallbackV  int
	Degenerate int

	MeanS      float64 // [m/s]
	MeanSigmaS float64 // [m/s]
	MaxSigmaS  float64 // [m/s]
}

// Summary は欠測を除いて風速とその誤差を集計します。
func (ser *Series) Summary() Summary {
	sum := Summary{
		Count:      ser.Len(),
		MeanS:      NoData,
		MeanSigmaS: NoData,
		MaxSigmaS:  NoData,
	}
	for _, f := range ser.Flags {
		if f.Has(FlagFallbackU) {
			sum.FallbackU++
		}
		if f.Has(FlagFallbackV) {
			sum.FallbackV++
		}
		if f.Has(FlagDegenerate) {
			sum.Degenerate++
		}
	}

	speeds := valid(ser.S)
	sum.Missing = ser.Len() - len(speeds)
	if len(speeds) > 0 {
		sum.MeanS = stat.Mean(speeds, nil)
	}
	sigmas := valid(ser.SigmaS)
	if len(sigmas) > 0 {
		sum.MeanSigmaS = stat.Mean(sigmas, nil)
		sum.MaxSigmaS = floats.Max(sigmas)
	}
	return sum
}

func valid(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

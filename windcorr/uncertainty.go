package windcorr

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//--------------------------------------
// 誤差伝播
//--------------------------------------
//
// 一次の誤差伝播 (線形近似) を用いる。導出量 f(x1,...,xn) の分散は
//
//	σf² = Σ (∂f/∂xi)² σi²
//
// 各計測誤差は互いに独立 (無相関) と仮定する。共分散行列は対角行列 Σ となり、
// (U, V) の共分散は C = J Σ Jᵀ、風速・風向の分散は C を勾配で挟んで求める。

// 誤差要因の並び (ヤコビアンの列)
var errorSources = [...]Quantity{
	QtyUm,
	QtyVm,
	QtyAnemometerHeading,
	QtyVx,
	QtyVy,
	QtyHeading,
}

const (
	colUm = iota
	colVm
	colAlign
	colVx
	colVy
	colPhi
	numSources
)

// PropagationInput は誤差伝播に必要な1サンプル分の値です。
type PropagationInput struct {
	Um, Vm float64
	Vx, Vy float64
	Phi    float64

	// U, V は Reconcile 後の値。FallbackU/V が真の軸は計測値で代替されている。
	U, V      float64
	FallbackU bool
	FallbackV bool
}

// Uncertainty は伝播後の誤差 (1σ) です。
type Uncertainty struct {
	SigmaU   float64 // [m/s]
	SigmaV   float64 // [m/s]
	SigmaS   float64 // [m/s]
	SigmaDir float64 // [°]

	// 風速 0 のため風速・風向の偏微分が定義されない
	Degenerate bool
}

func noUncertainty() Uncertainty {
	return Uncertainty{SigmaU: NoData, SigmaV: NoData, SigmaS: NoData, SigmaDir: NoData}
}

// 誤差要因の分散を対角に並べた行列 Σ
func sourceCovariance(p *ErrorProfile) (*mat.DiagDense, error) {
	variances := make([]float64, numSources)
	for i, q := range errorSources {
		sigma, err := p.Sigma(q)
		if err != nil {
			return nil, err
		}
		variances[i] = sigma * sigma
	}
	return mat.NewDiagDense(numSources, variances), nil
}

// (U, V) の誤差要因に対するヤコビアン (2 x numSources)。
// 回転角 θ = phi + δ (δ: 風速計の取付方位誤差, 名目値 0) として偏微分する。
func correctionJacobian(in PropagationInput) *mat.Dense {
	jac := mat.NewDense(2, numSources, nil)
	sin, cos := math.Sincos(in.Phi)

	if in.FallbackU {
		jac.Set(0, colUm, 1) // U = Um
	} else {
		//U = Um*cos - Vm*sin - Vx
		dTheta := -in.Um*sin - in.Vm*cos
		jac.Set(0, colUm, cos)       // U/Um
		jac.Set(0, colVm, -sin)      // U/Vm
		jac.Set(0, colAlign, dTheta) // U/δ
		jac.Set(0, colVx, -1)        // U/Vx
		jac.Set(0, colPhi, dTheta)   // U/phi
	}

	if in.FallbackV {
		jac.Set(1, colVm, 1) // V = Vm
	} else {
		//V = Um*sin + Vm*cos - Vy
		dTheta := in.Um*cos - in.Vm*sin
		jac.Set(1, colUm, sin)       // V/Um
		jac.Set(1, colVm, cos)       // V/Vm
		jac.Set(1, colAlign, dTheta) // V/δ
		jac.Set(1, colVy, -1)        // V/Vy
		jac.Set(1, colPhi, dTheta)   // V/phi
	}
	return jac
}

// 入力値の欠測判定。代替された軸は計測値のみを要求する。
func propagationInputMissing(in PropagationInput) bool {
	if anyNoData(in.U, in.V) {
		return true
	}
	if in.FallbackU && in.FallbackV {
		return anyNoData(in.Um, in.Vm)
	}
	return anyNoData(in.Um, in.Vm, in.Vx, in.Vy, in.Phi)
}

// Propagate は誤差プロファイル p を用いて補正後の風速・風向の誤差を計算します。
//
// p に必要な誤差定数が無い場合は ErrMissingConstant の ConfigError を返します (欠測値より先に判定)。
// 入力が欠測の場合は全ての誤差を NoData として返し、エラーにはしません。
// 風速 0 では風速誤差に (U, V) 共分散の最大固有値の平方根、風向誤差に 180° を返します。
func Propagate(in PropagationInput, p *ErrorProfile) (Uncertainty, error) {
	sigma, err := sourceCovariance(p)
	if err != nil {
		return noUncertainty(), err
	}
	if propagationInputMissing(in) {
		return noUncertainty(), nil
	}

	jac := correctionJacobian(in)

	// C = J Σ Jᵀ
	var js, c mat.Dense
	js.Mul(jac, sigma)
	c.Mul(&js, jac.T())

	cov := mat.NewSymDense(2, []float64{
		c.At(0, 0), c.At(0, 1),
		c.At(0, 1), c.At(1, 1),
	})

	res := Uncertainty{
		SigmaU: math.Sqrt(cov.At(0, 0)),
		SigmaV: math.Sqrt(cov.At(1, 1)),
	}

	S := math.Hypot(in.U, in.V)
	if S == 0 {
		res.Degenerate = true
		res.SigmaS = math.Sqrt(maxEigenvalue(cov))
		res.SigmaDir = 180.0
		return res, nil
	}

	// 風速 S = sqrt(U² + V²)
	g := mat.NewVecDense(2, []float64{in.U / S, in.V / S})
	res.SigmaS = math.Sqrt(mat.Inner(g, cov, g))

	// 風向 atan2(U, V) + π
	S2 := S * S
	h := mat.NewVecDense(2, []float64{in.V / S2, -in.U / S2})
	res.SigmaDir = radToDegree(math.Sqrt(mat.Inner(h, cov, h)))

	return res, nil
}

func maxEigenvalue(cov *mat.SymDense) float64 {
	var es mat.EigenSym
	if !es.Factorize(cov, false) {
		// 2x2 対称行列の固有値を直接計算する
		a, b, d := cov.At(0, 0), cov.At(0, 1), cov.At(1, 1)
		return (a+d)/2 + math.Sqrt((a-d)*(a-d)/4+b*b)
	}
	lmax := 0.0
	for _, v := range es.Values(nil) {
		if v > lmax {
			lmax = v
		}
	}
	return lmax
}

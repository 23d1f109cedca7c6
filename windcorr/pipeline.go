package windcorr

import (
	"context"
	"runtime"

	"github.com/hhkbp2/go-logging"
	"golang.org/x/sync/errgroup"
)

// 1つの goroutine がまとめて処理するサンプル数
const chunkSize = 1024

// Options は Pipeline の設定です。
type Options struct {
	// 並列数。0 以下の場合は runtime.NumCPU()
	Workers int

	// 追加補正 (空気密度など)。nil の場合は行わない
	Corrector SpeedCorrector
}

// Pipeline は 補正 -> 欠測補完 -> 風速風向 -> 誤差伝播 を1サンプルずつ行います。
// 状態を持たないため、複数の goroutine から同時に使用できます。
type Pipeline struct {
	profile   *ErrorProfile
	corrector SpeedCorrector
	workers   int
}

// NewPipeline は誤差プロファイル p を用いる Pipeline を作成します。
// p に必要な誤差定数が揃っていない場合は ConfigError を返します。
func NewPipeline(p *ErrorProfile, opts Options) (*Pipeline, error) {
	if _, err := sourceCovariance(p); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		profile:   p,
		corrector: opts.Corrector,
		workers:   workers,
	}, nil
}

// Profile は使用中の誤差プロファイルを返します。
func (pl *Pipeline) Profile() *ErrorProfile {
	return pl.profile
}

// Process は1サンプル分の補正結果を返します。引数の s は変更しません。
func (pl *Pipeline) Process(s Sample) (Sample, error) {
	// 機体座標 -> 地球座標、機体速度の除去
	// 計算できない場合は取り込み側が与えた U, V (通常は NoData) を残す
	if U, V := Correct(s.Um, s.Vm, s.Vx, s.Vy, s.Phi); !anyNoData(U, V) {
		s.U, s.V = U, V
		if pl.corrector != nil {
			s.U, s.V = pl.corrector.CorrectSpeed(s, pl.profile)
			s.Flags |= FlagDensityCorrected
		}
	}

	// 欠測補完
	r := Reconcile(s)

	// 風速・風向は補完後の (U, V) から計算する
	r.S, r.Dir = WrapWindDir(r.U, r.V)
	if r.Dir == CalmDirection {
		r.Flags |= FlagDegenerate
	}

	// 誤差伝播。計測値は補完前の値を使う
	unc, err := Propagate(PropagationInput{
		Um:        s.Um,
		Vm:        s.Vm,
		Vx:        s.Vx,
		Vy:        s.Vy,
		Phi:       s.Phi,
		U:         r.U,
		V:         r.V,
		FallbackU: r.Flags.Has(FlagFallbackU),
		FallbackV: r.Flags.Has(FlagFallbackV),
	}, pl.profile)
	if err != nil {
		return s, err
	}
	r.SigmaU = unc.SigmaU
	r.SigmaV = unc.SigmaV
	r.SigmaS = unc.SigmaS
	r.SigmaDir = unc.SigmaDir
	if unc.Degenerate {
		r.Flags |= FlagDegenerate
	}

	return r, nil
}

// ProcessAll は samples を並列に処理し、入力と同じ順序で結果を返します。
// ctx がキャンセルされた場合は処理を中断し ctx.Err() を返します。
func (pl *Pipeline) ProcessAll(ctx context.Context, samples []Sample) ([]Sample, error) {
	logger := logging.GetLogger("windcorr")
	logger.Debugf("補正計算: %d サンプル (setup=%s, workers=%d)", len(samples), pl.profile.Setup, pl.workers)

	out := make([]Sample, len(samples))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(pl.workers)

	for start := 0; start < len(samples); start += chunkSize {
		start := start
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				r, err := pl.Process(samples[i])
				if err != nil {
					return err
				}
				out[i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debugf("補正計算が終了しました")
	return out, nil
}

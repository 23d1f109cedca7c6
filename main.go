// windcorr
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/hhkbp2/go-logging"

	"github.com/udawtr/windcorr-go/windcorr"
	"github.com/udawtr/windcorr-go/windio"
)

func main() {
	env, err := loadEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// コマンドライン引数の処理
	parser := argparse.NewParser("windcorr", "Removes aircraft motion from anemometer wind measurements and propagates measurement errors")

	inputs := parser.StringList("i", "input", &argparse.Options{
		Required: true,
		Help:     "入力ファイル (CSV または .csv.gz)。複数指定可"})

	filename := parser.String("o", "output", &argparse.Options{
		Default: "",
		Help:    "保存ファイルパス (.gz で gzip 圧縮)。省略時は標準出力"})

	registryPath := parser.String("r", "registry", &argparse.Options{
		Default: env.Registry,
		Help:    "定数レジストリ (YAML)。省略時は組み込みのレジストリ"})

	setup := parser.String("s", "setup", &argparse.Options{
		Default: env.Setup,
		Help:    "セットアップ名 (機体と風速計の組み合わせ)"})

	workers := parser.Int("w", "workers", &argparse.Options{
		Default: env.Workers,
		Help:    "並列数 (0 で CPU 数)"})

	summary := parser.Flag("", "summary", &argparse.Options{
		Help: "集計結果を標準エラー出力に表示する"})

	logLevel := parser.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}, &argparse.Options{
		Default: strings.ToUpper(env.Log),
		Help:    "ログレベルの設定"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	// ログレベル設定
	logger := logging.GetLogger("windcorr")
	if *logLevel == "DEBUG" {
		logger.SetLevel(logging.LevelDebug)
	} else if *logLevel == "INFO" {
		logger.SetLevel(logging.LevelInfo)
	} else if *logLevel == "WARN" {
		logger.SetLevel(logging.LevelWarn)
	} else if *logLevel == "ERROR" {
		logger.SetLevel(logging.LevelError)
	} else if *logLevel == "CRITICAL" {
		logger.SetLevel(logging.LevelCritical)
	}

	if err := run(*inputs, *filename, *registryPath, *setup, *workers, *summary); err != nil {
		logger.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("計算が終了しました")
}

func run(inputs []string, filename, registryPath, setup string, workers int, summary bool) error {
	logger := logging.GetLogger("windcorr")

	// 定数レジストリ
	var reg *windcorr.Registry
	var err error
	if registryPath == "" {
		reg, err = windcorr.DefaultRegistry()
	} else {
		reg, err = windcorr.LoadRegistry(registryPath)
	}
	if err != nil {
		return err
	}

	profile, err := reg.Profile(setup)
	if err != nil {
		return err
	}
	logger.Infof("セットアップ: %s (platform=%s, anemometer=%s)", profile.Setup, profile.Platform, profile.Anemometer)

	pl, err := windcorr.NewPipeline(profile, windcorr.Options{Workers: workers})
	if err != nil {
		return err
	}

	// 読み込み
	loaded, err := windio.LoadAll(inputs)
	if err != nil {
		return err
	}
	var samples []windcorr.Sample
	for _, s := range loaded {
		samples = append(samples, s...)
	}

	// 補正計算
	res, err := pl.ProcessAll(context.Background(), samples)
	if err != nil {
		return err
	}
	ser := windcorr.NewSeries(res)

	if summary {
		sum := ser.Summary()
		fmt.Fprintf(os.Stderr, "samples=%d missing=%d fallbackU=%d fallbackV=%d calm=%d meanS=%.3f meanSigmaS=%.3f maxSigmaS=%.3f\n",
			sum.Count, sum.Missing, sum.FallbackU, sum.FallbackV, sum.Degenerate, sum.MeanS, sum.MeanSigmaS, sum.MaxSigmaS)
	}

	// 保存
	if filename == "" {
		return windio.ToCSV(os.Stdout, ser)
	}
	logger.Infof("CSV保存: %s", filename)
	return windio.SaveCSV(filename, ser)
}

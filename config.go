package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// 環境変数による既定値 (コマンドライン引数が優先)
//
//	WINDCORR_REGISTRY: 定数レジストリ (YAML) のパス。空の場合は組み込みのレジストリ
//	WINDCORR_SETUP:    セットアップ名。空の場合は default_setup
//	WINDCORR_WORKERS:  並列数
//	WINDCORR_LOG:      ログレベル
type EnvConfig struct {
	Registry string `envconfig:"REGISTRY"`
	Setup    string `envconfig:"SETUP"`
	Workers  int    `envconfig:"WORKERS" default:"0"`
	Log      string `envconfig:"LOG" default:"ERROR"`
}

// .env を読み込んだ後、WINDCORR_ で始まる環境変数を EnvConfig に設定する
func loadEnvConfig() (EnvConfig, error) {
	// .env が無くてもエラーにしない
	_ = godotenv.Load()

	var cfg EnvConfig
	if err := envconfig.Process("windcorr", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

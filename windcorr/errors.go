package windcorr

import "fmt"

// ConfigErrorType は設定エラーの分類です。
type ConfigErrorType string

const (
	// 必要な誤差定数が誤差プロファイルに存在しない
	ErrMissingConstant ConfigErrorType = "MISSING_CONSTANT"
	// 指定されたセットアップ (機体と風速計の組み合わせ) が登録されていない
	ErrUnknownSetup ConfigErrorType = "UNKNOWN_SETUP"
	// YAML の読み込みに失敗した
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// 値の検証に失敗した (負の誤差など)
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
)

// ConfigError は定数レジストリ・誤差プロファイルに起因するエラーです。
// 欠測値や無風は ConfigError になりません。
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("windcorr config [%s]: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("windcorr config [%s]: %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

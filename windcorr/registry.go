package windcorr

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hhkbp2/go-logging"
	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistryYAML []byte

// Quantity は誤差プロファイルに登録される計測量です。
type Quantity string

const (
	QtyPressure          Quantity = "P"
	QtyTemperature       Quantity = "T"
	QtyUm                Quantity = "Um"
	QtyVm                Quantity = "Vm"
	QtyWm                Quantity = "Wm"
	QtyAnemometerHeading Quantity = "AnemometerPhi" // 風速計の取付方位誤差
	QtyVx                Quantity = "Vx"
	QtyVy                Quantity = "Vy"
	QtyHeading           Quantity = "Phi" // 機体の機首方位誤差
)

// 物理定数
type PhysicalConstants struct {
	MolarMassAir *float64 `yaml:"molar_mass_air" validate:"required,gt=0"`
	GasConstant  *float64 `yaml:"gas_constant" validate:"required,gt=0"`
}

// 風速計の計測誤差
type AnemometerErrors struct {
	Pressure    *float64 `yaml:"pressure" validate:"required,gte=0"`
	Temperature *float64 `yaml:"temperature" validate:"required,gte=0"`
	Um          *float64 `yaml:"um" validate:"required,gte=0"`
	Vm          *float64 `yaml:"vm" validate:"required,gte=0"`
	Wm          *float64 `yaml:"wm" validate:"required,gte=0"`
	Heading     *float64 `yaml:"heading" validate:"required,gte=0"`
}

// 機体 (オートパイロット) の計測誤差
type PlatformErrors struct {
	Vx      *float64 `yaml:"vx" validate:"required,gte=0"`
	Vy      *float64 `yaml:"vy" validate:"required,gte=0"`
	Heading *float64 `yaml:"heading" validate:"required,gte=0"`
}

// Setup は機体と風速計の組み合わせです。
type Setup struct {
	Platform   string `yaml:"platform" validate:"required"`
	Anemometer string `yaml:"anemometer" validate:"required"`
}

// Registry は定数レジストリです。プロセス起動時に一度だけ読み込み、以後は変更しません。
type Registry struct {
	Constants    PhysicalConstants           `yaml:"constants"`
	Anemometers  map[string]AnemometerErrors `yaml:"anemometers" validate:"required,min=1,dive"`
	Platforms    map[string]PlatformErrors   `yaml:"platforms" validate:"required,min=1,dive"`
	Setups       map[string]Setup            `yaml:"setups" validate:"required,min=1,dive"`
	DefaultSetup string                      `yaml:"default_setup" validate:"required"`
}

// DefaultRegistry は埋め込みの registry.yaml を読み込みます。
func DefaultRegistry() (*Registry, error) {
	return ParseRegistry(defaultRegistryYAML)
}

// LoadRegistry はファイル path から定数レジストリを読み込みます。
func LoadRegistry(path string) (*Registry, error) {
	logger := logging.GetLogger("windcorr")
	logger.Debugf("定数レジストリ読込: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry は YAML を解析し、検証済みの Registry を返します。
// 誤差定数の欠落は ErrMissingConstant、参照不整合や負の値は ErrValidation になります。
func ParseRegistry(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, &ConfigError{Type: ErrParsing, Message: "failed to parse registry", Err: err}
	}
	if err := reg.validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (reg *Registry) validate() error {
	if err := validator.New().Struct(reg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return &ConfigError{
						Type:    ErrMissingConstant,
						Message: fmt.Sprintf("%s is not set", fe.Namespace()),
						Err:     err,
					}
				}
			}
		}
		return &ConfigError{Type: ErrValidation, Message: "registry validation failed", Err: err}
	}

	// セットアップが参照する機器の存在確認
	for _, name := range reg.SetupNames() {
		setup := reg.Setups[name]
		if _, ok := reg.Platforms[setup.Platform]; !ok {
			return &ConfigError{
				Type:    ErrValidation,
				Message: fmt.Sprintf("setup %q refers to unknown platform %q", name, setup.Platform),
			}
		}
		if _, ok := reg.Anemometers[setup.Anemometer]; !ok {
			return &ConfigError{
				Type:    ErrValidation,
				Message: fmt.Sprintf("setup %q refers to unknown anemometer %q", name, setup.Anemometer),
			}
		}
	}
	if _, ok := reg.Setups[reg.DefaultSetup]; !ok {
		return &ConfigError{
			Type:    ErrValidation,
			Message: fmt.Sprintf("default_setup %q is not defined", reg.DefaultSetup),
		}
	}
	return nil
}

// SetupNames は登録済みセットアップ名を昇順で返します。
func (reg *Registry) SetupNames() []string {
	names := make([]string, 0, len(reg.Setups))
	for name := range reg.Setups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile はセットアップ名 key に対応する誤差プロファイルを返します。
// key が空の場合は default_setup を使用します。
func (reg *Registry) Profile(key string) (*ErrorProfile, error) {
	if key == "" {
		logger := logging.GetLogger("windcorr")
		logger.Debugf("セットアップ未指定のため既定値を使用します: %s", reg.DefaultSetup)
		key = reg.DefaultSetup
	}
	setup, ok := reg.Setups[key]
	if !ok {
		return nil, &ConfigError{
			Type:    ErrUnknownSetup,
			Message: fmt.Sprintf("setup %q is not registered (known: %s)", key, strings.Join(reg.SetupNames(), ", ")),
		}
	}
	anemo, ok := reg.Anemometers[setup.Anemometer]
	if !ok {
		return nil, &ConfigError{Type: ErrUnknownSetup, Message: fmt.Sprintf("anemometer %q is not registered", setup.Anemometer)}
	}
	plat, ok := reg.Platforms[setup.Platform]
	if !ok {
		return nil, &ConfigError{Type: ErrUnknownSetup, Message: fmt.Sprintf("platform %q is not registered", setup.Platform)}
	}

	sigma := map[Quantity]float64{}
	put := func(q Quantity, v *float64) {
		if v != nil {
			sigma[q] = *v
		}
	}
	put(QtyPressure, anemo.Pressure)
	put(QtyTemperature, anemo.Temperature)
	put(QtyUm, anemo.Um)
	put(QtyVm, anemo.Vm)
	put(QtyWm, anemo.Wm)
	put(QtyAnemometerHeading, anemo.Heading)
	put(QtyVx, plat.Vx)
	put(QtyVy, plat.Vy)
	put(QtyHeading, plat.Heading)

	p := NewErrorProfile(key, sigma)
	p.Platform = setup.Platform
	p.Anemometer = setup.Anemometer
	if reg.Constants.MolarMassAir != nil {
		p.MolarMassAir = *reg.Constants.MolarMassAir
	}
	if reg.Constants.GasConstant != nil {
		p.GasConstant = *reg.Constants.GasConstant
	}
	return p, nil
}

// ErrorProfile は計測量ごとの絶対誤差 (1σ) です。
// 生成後は変更されないため、複数の goroutine から同時に参照できます。
type ErrorProfile struct {
	Setup        string
	Platform     string
	Anemometer   string
	MolarMassAir float64 // [kg/mol]
	GasConstant  float64 // [J/(mol K)]

	sigma map[Quantity]float64
}

// NewErrorProfile は誤差の表 sigma から誤差プロファイルを作成します。sigma はコピーされます。
// 物理定数は既定値 (MolarMassAir, GasConstant) で初期化されます。
func NewErrorProfile(setup string, sigma map[Quantity]float64) *ErrorProfile {
	m := make(map[Quantity]float64, len(sigma))
	for q, v := range sigma {
		m[q] = v
	}
	return &ErrorProfile{
		Setup:        setup,
		MolarMassAir: MolarMassAir,
		GasConstant:  GasConstant,
		sigma:        m,
	}
}

// Sigma は計測量 q の誤差を返します。登録されていない場合は ErrMissingConstant です。
// 誤差 0 を仮定して処理を続けることはしません。
func (p *ErrorProfile) Sigma(q Quantity) (float64, error) {
	if p == nil {
		return 0, &ConfigError{Type: ErrMissingConstant, Message: "error profile is nil"}
	}
	v, ok := p.sigma[q]
	if !ok {
		return 0, &ConfigError{
			Type:    ErrMissingConstant,
			Message: fmt.Sprintf("setup %q has no error magnitude for %s", p.Setup, q),
		}
	}
	return v, nil
}

// With は q の誤差だけを v に置き換えた新しいプロファイルを返します。
func (p *ErrorProfile) With(q Quantity, v float64) *ErrorProfile {
	np := NewErrorProfile(p.Setup, p.sigma)
	np.Platform = p.Platform
	np.Anemometer = p.Anemometer
	np.MolarMassAir = p.MolarMassAir
	np.GasConstant = p.GasConstant
	np.sigma[q] = v
	return np
}

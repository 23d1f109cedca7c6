package windcorr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistry = `
constants:
  molar_mass_air: 28.9647e-3
  gas_constant: 8.314462618
anemometers:
  trisonica:
    pressure: 1000
    temperature: 2
    um: 0.2
    vm: 0.2
    wm: 0.2
    heading: 0.2
  sonic2d:
    pressure: 500
    temperature: 0.5
    um: 0.05
    vm: 0.05
    wm: 0.1
    heading: 0.02
platforms:
  m600p:
    vx: 0.05
    vy: 0.05
    heading: 0.05
setups:
  m600p-trisonica:
    platform: m600p
    anemometer: trisonica
  m600p-sonic2d:
    platform: m600p
    anemometer: sonic2d
default_setup: m600p-trisonica
`

func configErrorType(t *testing.T, err error) ConfigErrorType {
	t.Helper()
	require.Error(t, err)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr), "expected *ConfigError, got %T: %v", err, err)
	return cerr.Type
}

// 組み込みのレジストリが定数と一致すること
func Test_DefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"m600p-trisonica"}, reg.SetupNames())

	p, err := reg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "m600p-trisonica", p.Setup)
	assert.Equal(t, "m600p", p.Platform)
	assert.Equal(t, "trisonica", p.Anemometer)
	assert.InDelta(t, MolarMassAir, p.MolarMassAir, 1e-12)
	assert.InDelta(t, GasConstant, p.GasConstant, 1e-12)

	expected := map[Quantity]float64{
		QtyPressure:          ErrTrisonicaP,
		QtyTemperature:       ErrTrisonicaT,
		QtyUm:                ErrTrisonicaUm,
		QtyVm:                ErrTrisonicaVm,
		QtyWm:                ErrTrisonicaWm,
		QtyAnemometerHeading: ErrTrisonicaPhi,
		QtyVx:                ErrM600PVx,
		QtyVy:                ErrM600PVy,
		QtyHeading:           ErrM600PPhi,
	}
	for q, want := range expected {
		got, err := p.Sigma(q)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12, "quantity %s", q)
	}
}

// ファイルからの読み込みとセットアップの切り替え
func Test_LoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRegistry), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"m600p-sonic2d", "m600p-trisonica"}, reg.SetupNames())

	p, err := reg.Profile("m600p-sonic2d")
	require.NoError(t, err)
	sigma, err := p.Sigma(QtyUm)
	require.NoError(t, err)
	assert.Equal(t, 0.05, sigma)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Registry_UnknownSetup(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)

	_, err = reg.Profile("a320-pitot")
	assert.Equal(t, ErrUnknownSetup, configErrorType(t, err))
}

// 誤差定数の欠落は読み込み時にエラー
func Test_Registry_MissingConstant(t *testing.T) {
	data := strings.Replace(testRegistry, "    vx: 0.05\n", "", 1)
	_, err := ParseRegistry([]byte(data))
	assert.Equal(t, ErrMissingConstant, configErrorType(t, err))

	data = strings.Replace(testRegistry, "  gas_constant: 8.314462618\n", "", 1)
	_, err = ParseRegistry([]byte(data))
	assert.Equal(t, ErrMissingConstant, configErrorType(t, err))
}

// 誤差 0 は許可し、負の値はエラー
func Test_Registry_Validation(t *testing.T) {
	data := strings.Replace(testRegistry, "    vx: 0.05\n", "    vx: 0\n", 1)
	reg, err := ParseRegistry([]byte(data))
	require.NoError(t, err)
	p, err := reg.Profile("")
	require.NoError(t, err)
	sigma, err := p.Sigma(QtyVx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sigma)

	data = strings.Replace(testRegistry, "    vx: 0.05\n", "    vx: -0.05\n", 1)
	_, err = ParseRegistry([]byte(data))
	assert.Equal(t, ErrValidation, configErrorType(t, err))

	data = strings.Replace(testRegistry, "    platform: m600p\n    anemometer: sonic2d", "    platform: dji\n    anemometer: sonic2d", 1)
	_, err = ParseRegistry([]byte(data))
	assert.Equal(t, ErrValidation, configErrorType(t, err))

	data = strings.Replace(testRegistry, "default_setup: m600p-trisonica", "default_setup: none", 1)
	_, err = ParseRegistry([]byte(data))
	assert.Equal(t, ErrValidation, configErrorType(t, err))
}

func Test_Registry_Parsing(t *testing.T) {
	_, err := ParseRegistry([]byte("anemometers: [1, 2"))
	assert.Equal(t, ErrParsing, configErrorType(t, err))
}

// With は元のプロファイルを変更しない
func Test_ErrorProfile_With(t *testing.T) {
	p := NewErrorProfile("x", map[Quantity]float64{QtyUm: 0.2})
	q := p.With(QtyUm, 0.5).With(QtyVm, 0.1)

	s, err := p.Sigma(QtyUm)
	require.NoError(t, err)
	assert.Equal(t, 0.2, s)
	_, err = p.Sigma(QtyVm)
	assert.Equal(t, ErrMissingConstant, configErrorType(t, err))

	s, err = q.Sigma(QtyUm)
	require.NoError(t, err)
	assert.Equal(t, 0.5, s)
	assert.Equal(t, "x", q.Setup)
}

package windcorr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 標準大気 (101325 Pa, 15℃) の空気密度
func Test_AirDensity(t *testing.T) {
	assert.InDelta(t, 1.225, AirDensity(101325, 15), 0.001)
	assert.True(t, IsNoData(AirDensity(NoData, 15)))
	assert.True(t, IsNoData(AirDensity(101325, -300)))
}

func Test_AirDensitySigma(t *testing.T) {
	rho, sigma, err := AirDensitySigma(101325, 15, defaultProfile(t))
	require.NoError(t, err)
	assert.InDelta(t, 1.224990831236859, rho, 1e-9)
	assert.InDelta(t, 0.014780156132337869, sigma, 1e-9)

	_, _, err = AirDensitySigma(101325, 15, NewErrorProfile("x", map[Quantity]float64{QtyPressure: 1}))
	assert.Equal(t, ErrMissingConstant, configErrorType(t, err))
}

package windcorr

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 補正計算のテスト (Vx=10, Vy=0, phi=0, Um=2, Vm=1)
func Test_Correct(t *testing.T) {
	U, V := Correct(2.0, 1.0, 10.0, 0.0, 0.0)
	assert.InDelta(t, -8.0, U, 1e-12)
	assert.InDelta(t, 1.0, V, 1e-12)

	spd, dir := WrapWindDir(U, V)
	assert.InDelta(t, math.Sqrt(65), spd, 1e-12)
	assert.InDelta(t, 97.1250163, dir, 1e-6)
}

// 機首方位 90° の回転: Um 軸は地球座標の北向きになる
func Test_Correct_Rotation(t *testing.T) {
	U, V := Correct(1.0, 0.0, 0.0, 0.0, math.Pi/2)
	assert.InDelta(t, 0.0, U, 1e-12)
	assert.InDelta(t, 1.0, V, 1e-12)
}

// 欠測値を含む場合は両成分とも NoData
func Test_Correct_NoData(t *testing.T) {
	inputs := [][5]float64{
		{NoData, 1, 1, 1, 0},
		{1, NoData, 1, 1, 0},
		{1, 1, NoData, 1, 0},
		{1, 1, 1, NoData, 0},
		{1, 1, 1, 1, NoData},
	}
	for _, in := range inputs {
		U, V := Correct(in[0], in[1], in[2], in[3], in[4])
		assert.True(t, IsNoData(U))
		assert.True(t, IsNoData(V))
	}
}

// 補正 -> 逆変換で元の計測値に戻ること
func Test_Correct_RoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		Um := rnd.Float64()*40 - 20
		Vm := rnd.Float64()*40 - 20
		Vx := rnd.Float64()*60 - 30
		Vy := rnd.Float64()*60 - 30
		phi := rnd.Float64()*4*math.Pi - 2*math.Pi

		U, V := Correct(Um, Vm, Vx, Vy, phi)
		Um2, Vm2 := Uncorrect(U, V, Vx, Vy, phi)
		assert.InDelta(t, Um, Um2, 1e-9)
		assert.InDelta(t, Vm, Vm2, 1e-9)
	}
}

// 風速は非負で、0 になるのはゼロベクトルのときだけ
func Test_Magnitude(t *testing.T) {
	assert.Equal(t, 0.0, Magnitude(0, 0))
	assert.Equal(t, 5.0, Magnitude(3, -4))
	assert.True(t, Magnitude(1e-300, 0) > 0)
	assert.True(t, IsNoData(Magnitude(NoData, 1)))

	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		assert.True(t, Magnitude(rnd.NormFloat64(), rnd.NormFloat64()) >= 0)
	}
}

// 風向の範囲と方位の確認
func Test_WrapWindDir(t *testing.T) {
	tests := []struct {
		name string
		U, V float64
		dir  float64
	}{
		{"北風", 0, -1, 0},
		{"東風", -1, 0, 90},
		{"南風", 0, 1, 180},
		{"西風", 1, 0, 270},
		{"南西風", 1, 1, 225},
		{"北東風", -1, -1, 45},
		{"負のゼロ", math.Copysign(0, -1), -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dir := WrapWindDir(tt.U, tt.V)
			assert.InDelta(t, tt.dir, dir, 1e-9)
		})
	}

	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		_, dir := WrapWindDir(rnd.NormFloat64(), rnd.NormFloat64())
		assert.True(t, dir >= 0 && dir < 360, "dir=%v", dir)
	}
}

// 無風・欠測の扱い
func Test_WrapWindDir_Calm(t *testing.T) {
	spd, dir := WrapWindDir(0, 0)
	assert.Equal(t, 0.0, spd)
	assert.Equal(t, CalmDirection, dir)

	spd, dir = WrapWindDir(NoData, 0)
	assert.True(t, IsNoData(spd))
	assert.True(t, IsNoData(dir))
}

func Test_Wind16(t *testing.T) {
	spd, dir := Wind16(1.0, 1.0)
	assert.InDelta(t, 1.4142135, spd, 0.0001)
	assert.Equal(t, 180.0+45.0, dir)

	// 350° は北 (0°) に丸める
	U, V := -math.Sin(degreeToRad(350))*2, -math.Cos(degreeToRad(350))*2
	spd, dir = Wind16(U, V)
	assert.Equal(t, 0.0, dir)
	assert.InDelta(t, 2*math.Cos(degreeToRad(10)), spd, 1e-9)

	spd, dir = Wind16(0, 0)
	assert.Equal(t, 0.0, spd)
	assert.Equal(t, CalmDirection, dir)
}

func Test_Sector16(t *testing.T) {
	assert.Equal(t, 16, Sector16(0))
	assert.Equal(t, 16, Sector16(355))
	assert.Equal(t, 1, Sector16(22.5))
	assert.Equal(t, 4, Sector16(90))
	assert.Equal(t, 12, Sector16(270))
	assert.Equal(t, 0, Sector16(CalmDirection))
	assert.Equal(t, 0, Sector16(NoData))
}

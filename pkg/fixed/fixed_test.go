package fixed

import (
	"math"
	"testing"
)

func near[T ~int32 | ~int64](a, b, tol T) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestFloatRoundTrip(t *testing.T) {
	values := []Scalar{0, 1, -1, One, -One, Half, 12345, -98765, Max, Min, FromInt(1000) + 7}
	for _, v := range values {
		if got := FromFloat(v.Float()); !near(got, v, 1) {
			t.Errorf("FromFloat(%v.Float()) = %d, want %d", v, got, v)
		}
	}
}

func TestMultiplicativeIdentity(t *testing.T) {
	values := []Scalar{0, 1, -1, 3, One, -One, Half, FromInt(100), FromInt(-32000), 0x7fff0000, -0x7fff0000}
	for _, v := range values {
		if got := Mul(v, One); got != v {
			t.Errorf("Mul(%d, One) = %d", v, got)
		}
		if got := Div(v, One); got != v {
			t.Errorf("Div(%d, One) = %d", v, got)
		}
	}
}

func TestDivRoundsToNearest(t *testing.T) {
	for a := int64(-40); a <= 40; a++ {
		for _, b := range []int64{-7 * int64(One), -3 * int64(One), 2 * int64(One), 3 * int64(One), 8 * int64(One), 5} {
			exact := float64(a) * float64(One) / float64(b)
			want := int64(math.Floor(exact + 0.5))
			if got := Div64(a, b); got != want {
				t.Errorf("Div64(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestMulDivRounding(t *testing.T) {
	tests := []struct {
		name string
		got  Scalar
		want Scalar
	}{
		{"2*3", Mul(FromInt(2), FromInt(3)), FromInt(6)},
		{"half*half", Mul(Half, Half), One / 4},
		{"-2*3", Mul(FromInt(-2), FromInt(3)), FromInt(-6)},
		{"6/3", Div(FromInt(6), FromInt(3)), FromInt(2)},
		{"1/2", Div(One, FromInt(2)), Half},
		{"1/3", Div(One, FromInt(3)), 21845},
		{"2/3", Div(FromInt(2), FromInt(3)), 43691},
		{"-6/3", Div(FromInt(-6), FromInt(3)), FromInt(-2)},
		{"-2/3", Div(FromInt(-2), FromInt(3)), -43691},
		{"2/-3", Div(FromInt(2), FromInt(-3)), -43691},
		{"-2/-3", Div(FromInt(-2), FromInt(-3)), 43691},
		{"-0.75 units", Div(-3, 4*One), -1},
		{"-0.625 units", Div(-5, 8*One), -1},
		{"-0.5 units rounds up", Div(-1, 2*One), 0},
		{"-1.5 units rounds up", Div(-3, 2*One), -1},
		{"reciprocal 0", Reciprocal(0), Div(One, 1)},
		{"lerp", Lerp(FromInt(2), FromInt(4), Half), FromInt(3)},
		{"fraction", FromFraction(3, 4), One * 3 / 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %d, want %d", tc.got, tc.want)
			}
		})
	}
}

func TestIntConversions(t *testing.T) {
	v := FromFloat(2.25)
	if v.Int() != 2 || v.Ceil() != 3 || v.Round() != 2 || v.Frac() != One/4 {
		t.Errorf("2.25: Int=%d Ceil=%d Round=%d Frac=%d", v.Int(), v.Ceil(), v.Round(), v.Frac())
	}
	n := FromFloat(-2.25)
	if n.Int() != -3 || n.Ceil() != -2 || n.Round() != -2 {
		t.Errorf("-2.25: Int=%d Ceil=%d Round=%d", n.Int(), n.Ceil(), n.Round())
	}
	if FromInt(5).Ceil() != 5 {
		t.Errorf("Ceil(5) = %d", FromInt(5).Ceil())
	}
}

func TestNonZero(t *testing.T) {
	if NonZero(Scalar(0)) != 1 {
		t.Error("NonZero(0) should substitute 1")
	}
	if NonZero(Scalar(-7)) != -7 {
		t.Error("NonZero should pass through non-zero values")
	}
	if NonZero(int64(0)) != 1 {
		t.Error("NonZero(int64(0)) should substitute 1")
	}
}

func TestSinCos(t *testing.T) {
	tests := []struct {
		deg int
		sin Scalar
		cos Scalar
	}{
		{0, 0, One},
		{30, Half, 56756},
		{90, One, 0},
		{180, 0, -One},
		{270, -One, 0},
		{360, 0, One},
		{-90, -One, 0},
		{450, One, 0},
	}
	for _, tc := range tests {
		if got := Sin(FromInt(tc.deg)); got != tc.sin {
			t.Errorf("Sin(%d) = %d, want %d", tc.deg, got, tc.sin)
		}
		if got := Cos(FromInt(tc.deg)); got != tc.cos {
			t.Errorf("Cos(%d) = %d, want %d", tc.deg, got, tc.cos)
		}
	}
}

func TestSinCosIdentity(t *testing.T) {
	for d := -360; d <= 720; d++ {
		s, c := Sin(FromInt(d)), Cos(FromInt(d))
		if sum := Mul(s, s) + Mul(c, c); !near(sum, One, 4) {
			t.Fatalf("sin²+cos² at %d° = %d, want ~%d", d, sum, One)
		}
	}
}

func TestSinMatchesMath(t *testing.T) {
	for d := 0; d < 360; d++ {
		want := FromFloat(math.Sin(float64(d) * math.Pi / 180))
		if got := Sin(FromInt(d)); !near(got, want, 1) {
			t.Fatalf("Sin(%d) = %d, want %d", d, got, want)
		}
	}
}

func TestSinRoundsToNearestDegree(t *testing.T) {
	if got := Sin(FromFloat(29.6)); got != sinTable[30] {
		t.Errorf("Sin(29.6) = %d, want table[30] = %d", got, sinTable[30])
	}
	if got := Sin(FromFloat(29.4)); got != sinTable[29] {
		t.Errorf("Sin(29.4) = %d, want table[29] = %d", got, sinTable[29])
	}
}

func TestTan(t *testing.T) {
	if got := Tan(FromInt(45)); got != One {
		t.Errorf("Tan(45) = %d, want %d", got, One)
	}
	if got := Tan(0); got != 0 {
		t.Errorf("Tan(0) = %d", got)
	}
	if got := Tan(Deg90); got != Max {
		t.Errorf("Tan(90) = %d, want saturation to %d", got, Max)
	}
}

func TestAsinAcos(t *testing.T) {
	tests := []struct {
		in   Scalar
		asin int
		acos int
	}{
		{0, 0, 90},
		{One, 90, 0},
		{-One, -90, 180},
		{Half, 30, 60},
		{-Half, -30, 120},
		{2 * One, 90, 0},
	}
	for _, tc := range tests {
		if got := Asin(tc.in); got != FromInt(tc.asin) {
			t.Errorf("Asin(%d) = %v, want %d", tc.in, got.Float(), tc.asin)
		}
		if got := Acos(tc.in); got != FromInt(tc.acos) {
			t.Errorf("Acos(%d) = %v, want %d", tc.in, got.Float(), tc.acos)
		}
	}
	for d := -90; d <= 90; d++ {
		if got := Asin(Sin(FromInt(d))); got != FromInt(d) {
			t.Fatalf("Asin(Sin(%d)) = %v", d, got.Float())
		}
	}
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		in   Scalar
		want Scalar
	}{
		{FromInt(4), FromInt(2)},
		{FromInt(9), FromInt(3)},
		{One, One},
		{One / 4, Half},
		{0, 0},
		{-One, 0},
		{FromInt(2), FromFloat(math.Sqrt2)},
		{FromInt(10000), FromInt(100)},
		{Max, FromFloat(math.Sqrt(Max.Float()))},
	}
	for _, tc := range tests {
		if got := Sqrt(tc.in); !near(got, tc.want, 1) {
			t.Errorf("Sqrt(%v) = %d, want %d ±1", tc.in.Float(), got, tc.want)
		}
	}
}

func TestSqrtLong(t *testing.T) {
	// 30000² does not fit a Scalar but does fit the 64-bit accumulator.
	v := int64(FromInt(30000)) * 30000
	if got := SqrtLong(v); got != FromInt(30000) {
		t.Errorf("SqrtLong(30000²) = %v, want 30000", got.Float())
	}
	if got := SqrtLong(int64(FromInt(16))); got != FromInt(4) {
		t.Errorf("SqrtLong(16) = %v", got.Float())
	}
}

func TestPow(t *testing.T) {
	tests := []struct {
		name string
		base Scalar
		exp  Scalar
		want Scalar
	}{
		{"2^10", FromInt(2), FromInt(10), FromInt(1024)},
		{"x^0", FromInt(7), 0, One},
		{"x^1", FromFloat(1.5), One, FromFloat(1.5)},
		{"0.5^2", Half, FromInt(2), One / 4},
		{"2^-1", FromInt(2), -One, Half},
		{"fractional exponent truncates", FromInt(3), FromFloat(2.7), FromInt(9)},
		{"saturates", FromInt(1000), FromInt(4), Max},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Pow(tc.base, tc.exp); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRanges(t *testing.T) {
	if got := Wrap(370, 0, 360); got != 10 {
		t.Errorf("Wrap(370) = %d", got)
	}
	if got := Wrap(-10, 0, 360); got != 350 {
		t.Errorf("Wrap(-10) = %d", got)
	}
	if got := Wrap(5, 3, 3); got != 3 {
		t.Errorf("Wrap on empty range = %d", got)
	}
	if got := NormalizeAngle(FromInt(-90)); got != Deg270 {
		t.Errorf("NormalizeAngle(-90) = %v", got.Float())
	}
	if got := Normalize(FromFloat(1.25), 0, One); got != One/4 {
		t.Errorf("Normalize(1.25, 0, 1) = %v", got.Float())
	}
	if got := Clamp(FromInt(5), 0, One); got != One {
		t.Errorf("Clamp = %v", got.Float())
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3) = %d", got)
	}
	if Min3(3, 1, 2) != 1 || Max3(3, 1, 2) != 3 {
		t.Error("Min3/Max3")
	}
	if Abs(Scalar(-5)) != 5 || Sign(Scalar(-5)) != -1 || Sign(0) != 0 {
		t.Error("Abs/Sign")
	}
}

func TestLong(t *testing.T) {
	if One.ToLong() != LongOne {
		t.Errorf("One.ToLong() = %d", One.ToLong())
	}
	if LongOne.Scalar() != One {
		t.Errorf("LongOne.Scalar() = %d", LongOne.Scalar())
	}
	// rounds to nearest on narrowing
	if got := (LongOne + 1<<15).Scalar(); got != One+1 {
		t.Errorf("narrowing rounding = %d", got)
	}
	if got := MulLong(LongFromInt(3), LongHalf); got != LongOne+LongHalf {
		t.Errorf("MulLong(3, 0.5) = %v", got.Float())
	}
	if got := DivLong(LongFromInt(3), LongFromInt(2)); got != LongOne+LongHalf {
		t.Errorf("DivLong(3, 2) = %v", got.Float())
	}
	if l := LongFromInt(-3) + LongHalf; l.Int() != -3 || l.Ceil() != -2 {
		t.Errorf("-2.5: Int=%d Ceil=%d", l.Int(), l.Ceil())
	}
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c int64
		want    int64
	}{
		{"exact", 6, 4, 3, 8},
		{"rounds half up", 3, 5, 2, 8},
		{"rounds down", 7, 1, 3, 2},
		{"negative", -3, 5, 2, -8},
		{"negative divisor", 6, 4, -3, -8},
		{"wide intermediate", 1 << 40, 1 << 40, 1 << 20, 1 << 60},
		{"saturates", math.MaxInt64, 4, 1, math.MaxInt64},
		{"saturates negative", math.MinInt64, 4, 1, math.MinInt64},
		{"zero divisor saturates", 1, 1, 0, math.MaxInt64},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MulDiv(tc.a, tc.b, tc.c); got != tc.want {
				t.Errorf("MulDiv(%d, %d, %d) = %d, want %d", tc.a, tc.b, tc.c, got, tc.want)
			}
		})
	}
}

func TestMulShift(t *testing.T) {
	if got := MulShift(int64(LongOne), int64(LongOne), LongBits); got != int64(LongOne) {
		t.Errorf("1*1 = %d", got)
	}
	if got := MulShift(-3, 1, 1); got != -2 {
		t.Errorf("-3>>1 rounded = %d, want -2", got)
	}
	if got := MulShift(math.MaxInt64, math.MaxInt64, 8); got != math.MaxInt64 {
		t.Errorf("overflow should saturate, got %d", got)
	}
}

func TestInt26_6(t *testing.T) {
	if got := FromInt26_6(64); got != One {
		t.Errorf("FromInt26_6(64) = %d", got)
	}
	if got := One.ToInt26_6(); got != 64 {
		t.Errorf("One.ToInt26_6() = %d", got)
	}
	if got := Snap(One + 100); got != One {
		t.Errorf("Snap(One+100) = %d, want %d", got, One)
	}
	if got := Snap(One + 600); got != One+1024 {
		t.Errorf("Snap(One+600) = %d, want %d", got, One+1024)
	}
	p := Point26_6(FromInt(2), FromInt(-3))
	if p.X != 128 || p.Y != -192 {
		t.Errorf("Point26_6 = %v", p)
	}
	if got := FromInt52_12(4096); got != One {
		t.Errorf("FromInt52_12(4096) = %d", got)
	}
	if got := Half.ToInt52_12(); got != 2048 {
		t.Errorf("Half.ToInt52_12() = %d", got)
	}
}

func TestRand(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for range 100 {
		if a.Uint32() != b.Uint32() {
			t.Fatal("same seed should give the same sequence")
		}
	}

	r := NewRand(7)
	lo, hi := FromInt(-2), FromInt(3)
	for range 1000 {
		if v := r.Range(lo, hi); v < lo || v >= hi {
			t.Fatalf("Range = %v, outside [-2, 3)", v.Float())
		}
		if v := r.Scalar(); v < 0 || v >= One {
			t.Fatalf("Scalar = %d, outside [0, One)", v)
		}
		if n := r.Intn(10); n < 0 || n >= 10 {
			t.Fatalf("Intn = %d", n)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should be 0")
	}

	r.Seed(42)
	a.Seed(42)
	if r.Uint32() != a.Uint32() {
		t.Error("Seed should reset the sequence")
	}
}

func BenchmarkMul(b *testing.B) {
	x, y := FromFloat(1.234), FromFloat(-5.678)
	for b.Loop() {
		_ = Mul(x, y)
	}
}

func BenchmarkDiv(b *testing.B) {
	x, y := FromFloat(1.234), FromFloat(-5.678)
	for b.Loop() {
		_ = Div(x, y)
	}
}

func BenchmarkSqrt(b *testing.B) {
	x := FromFloat(1234.5)
	for b.Loop() {
		_ = Sqrt(x)
	}
}

func BenchmarkMulDiv(b *testing.B) {
	for b.Loop() {
		_ = MulDiv(1<<40, 12345, 678)
	}
}

package prim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approxOpts = cmpopts.EquateApprox(1e-7, 0.0)

func TestNormalizeSimple(t *testing.T) {
	tests := []struct {
		v    Vec3
		want Vec3
	}{
		{v: Vec3{X: 2, Y: 0, Z: 0}, want: Vec3{X: 1, Y: 0, Z: 0}},
		{v: Vec3{X: 0, Y: -12, Z: 5}, want: Vec3{X: 0, Y: -12.0 / 13, Z: 5.0 / 13}},
		{v: Vec3{X: 3, Y: 4, Z: 0}, want: Vec3{X: 3.0 / 5.0, Y: 4.0 / 5.0, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			got := tt.v.Normalize()
			if diff := cmp.Diff(got, &tt.want, approxOpts); diff != "" {
				t.Errorf("Vec3.Normalize() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNormalizeIsUnitLength(t *testing.T) {
	tests := []struct {
		v Vec3
	}{
		{v: Vec3{X: 2, Y: 0, Z: 0}},
		{v: Vec3{X: 12, Y: 14, Z: 23}},
		{v: Vec3{X: 0, Y: 83, Z: 0.32}},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			normed := tt.v.Normalize()
			want := 1.0
			got := normed.Length()
			if diff := cmp.Diff(got, want, approxOpts); diff != "" {
				t.Errorf("Vec3.Length() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNormalizeZeroVectorReturnsZero(t *testing.T) {
	v := Vec3{}
	got := v.Normalize()
	if diff := cmp.Diff(got, &Vec3{}, approxOpts); diff != "" {
		t.Errorf("Vec3{}.Normalize() mismatch (-got +want):\n%s", diff)
	}
}

func TestCross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	got := x.Cross(&y)
	want := Vec3{Z: 1}
	if diff := cmp.Diff(got, &want, approxOpts); diff != "" {
		t.Errorf("Vec3.Cross() mismatch (-got +want):\n%s", diff)
	}
}

func TestDirection(t *testing.T) {
	a := Vec3{X: 1, Y: 1, Z: 1}
	b := Vec3{X: 4, Y: 1, Z: 1}
	got := a.Direction(&b)
	want := Vec3{X: 3}
	if diff := cmp.Diff(got, &want, approxOpts); diff != "" {
		t.Errorf("Vec3.Direction() mismatch (-got +want):\n%s", diff)
	}
}

// TestReflectPreservesLength checks the universal invariant that
// reflecting a unit vector about a unit normal yields another unit
// vector (|reflect(v,n)| = 1 +/- 1e-5).
func TestReflectPreservesLength(t *testing.T) {
	tests := []struct {
		v, n Vec3
	}{
		{v: Vec3{X: 1}, n: Vec3{Y: 1}},
		{v: Vec3{X: 1, Y: 1, Z: 1}, n: Vec3{Y: 1}},
		{v: Vec3{X: 3, Y: -2, Z: 5}, n: Vec3{X: 1, Y: 2, Z: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			v := tt.v.Normalize()
			n := tt.n.Normalize()
			got := v.Reflect(n).Length()
			if diff := cmp.Diff(got, 1.0, cmpopts.EquateApprox(1e-5, 0.0)); diff != "" {
				t.Errorf("Reflect().Length() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestReflectAboutNormalNegatesNormalComponent(t *testing.T) {
	v := Vec3{X: 1, Y: -1}
	n := Vec3{Y: 1}
	got := v.Reflect(&n)
	want := Vec3{X: 1, Y: 1}
	if diff := cmp.Diff(got, &want, approxOpts); diff != "" {
		t.Errorf("Reflect() mismatch (-got +want):\n%s", diff)
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{x: 1, want: 1},
		{x: 0, want: 1},
		{x: -0.5, want: -1},
	}
	for _, tt := range tests {
		if got := Sign(tt.x); got != tt.want {
			t.Errorf("Sign(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testTensor(n int) [][][][]float64 {
	V := make4(n, n, n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					V[i][j][k][l] = float64(1+i) * 0.3 * float64(1+j) * 0.7 * float64(1+k) * 1.1 * float64(1+l)
				}
			}
		}
	}
	return V
}

func TestTransformLinearity(t *testing.T) {
	n := 2
	V := testTensor(n)
	C1 := mat.NewDense(n, 1, []float64{0.4, -0.9})
	C2 := mat.NewDense(n, 1, []float64{1.1, 0.2})
	C3 := mat.NewDense(n, 1, []float64{-0.3, 0.8})
	C4 := mat.NewDense(n, 1, []float64{0.6, 0.5})

	base := fourIndexTransform(V, C1, C2, C3, C4)

	c := 2.0
	for arg := 0; arg < 4; arg++ {
		Cs := []*mat.Dense{mat.DenseCopyOf(C1), mat.DenseCopyOf(C2), mat.DenseCopyOf(C3), mat.DenseCopyOf(C4)}
		Cs[arg].Scale(c, Cs[arg])
		scaled := fourIndexTransform(V, Cs[0], Cs[1], Cs[2], Cs[3])
		assert.InEpsilon(t, c*base[0][0][0][0], scaled[0][0][0][0], 1e-12,
			"transform must be linear in coefficient argument %d", arg+1)
	}
}

func TestTransformBlockShape(t *testing.T) {
	n := 3
	V := testTensor(n)
	C := mat.NewDense(n, n, []float64{
		0.1, 0.2, 0.3,
		0.4, 0.5, 0.6,
		0.7, 0.8, 0.9,
	})
	nocc := 1
	mo := TransformAOMO(V, C, nocc)
	require.Len(t, mo, nocc)
	require.Len(t, mo[0], n-nocc)
	require.Len(t, mo[0][0], nocc)
	require.Len(t, mo[0][0][0], n-nocc)
}

func TestSameSpinVanishesForSwapSymmetricTensor(t *testing.T) {
	// ints[i][a][j][b] = (i+1)(j+1) + (a+1)(b+1) is invariant under
	// swapping its second and fourth indices, so the antisymmetrized
	// factor is identically zero.
	nocc, nvirt := 2, 2
	ints := make4(nocc, nvirt, nocc, nvirt)
	denom := make4(nocc, nvirt, nocc, nvirt)
	for i := 0; i < nocc; i++ {
		for a := 0; a < nvirt; a++ {
			for j := 0; j < nocc; j++ {
				for b := 0; b < nvirt; b++ {
					ints[i][a][j][b] = float64((i+1)*(j+1)) + float64((a+1)*(b+1))
					denom[i][a][j][b] = -1.0 / float64(1+i+a+j+b)
				}
			}
		}
	}
	_, ss := MP2Energy(ints, denom)
	assert.Zero(t, ss)
}

func TestDenominators(t *testing.T) {
	eps := []float64{-0.5, 0.25}
	d := Denominators(eps, 1)
	require.Len(t, d, 1)
	assert.InEpsilon(t, 1.0/(-1.5), d[0][0][0][0], 1e-15)
}

func TestMP2H2SameSpinZero(t *testing.T) {
	// With a single occupied orbital every same-spin term cancels by the
	// bra-ket symmetry of the MO integrals: a two-electron singlet has no
	// same-spin pair.
	m := h2Stretched(t, "6-31g")
	res, _, err := PerturbationEnergy(m, DefaultSCFConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.ESS, 1e-10)
}

func TestMP2CorrectionLowersEnergy(t *testing.T) {
	m := h2Stretched(t, "6-31g")
	res, wf, err := PerturbationEnergy(m, DefaultSCFConfig())
	require.NoError(t, err)
	assert.Equal(t, wf.Energy, res.EHF)
	assert.Less(t, res.EOS, 0.0)
	assert.Less(t, res.Total, res.EHF, "second-order correction cannot raise the energy")
	assert.Greater(t, res.Ecorr(), -0.1, "correlation energy of H2 is a small fraction of the total")
}

func TestMP2Determinism(t *testing.T) {
	run := func() MP2Result {
		m := h2Stretched(t, "6-31g")
		res, _, err := PerturbationEnergy(m, DefaultSCFConfig())
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a, b, "repeated runs must be bit-identical")
}

func TestMP2NoVirtuals(t *testing.T) {
	wf := &Wavefunction{
		Energy: -1,
		Nocc:   1,
		Eps:    []float64{-0.5},
		C:      mat.NewDense(1, 1, []float64{1}),
		ERI:    make4(1, 1, 1, 1),
	}
	_, err := PerturbationFromWavefunction(wf)
	require.Error(t, err)
}

func TestCompareReferenceScenario(t *testing.T) {
	// Minimal-basis mean-field vs perturbation-corrected energies of the
	// reference scenario differ by about 0.85 percent.
	pct, err := Compare(-1.0659994584784829, -1.0570227140)
	require.NoError(t, err)
	assert.InDelta(t, 0.8492, pct, 5e-4)
	assert.InDelta(t, 0.85, pct, 1e-2)
}

func TestCompareOrderConvention(t *testing.T) {
	// The second argument is the denominator.
	pct, err := Compare(2.0, 1.0)
	require.NoError(t, err)
	assert.InEpsilon(t, 100.0, pct, 1e-15)

	pct, err = Compare(1.0, 2.0)
	require.NoError(t, err)
	assert.InEpsilon(t, 50.0, pct, 1e-15)
}

func TestCompareZeroDenominator(t *testing.T) {
	_, err := Compare(1.0, 0.0)
	require.Error(t, err)
	pct, err := Compare(0.0, 1.0)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(pct))
}

func TestPerturbationStretchedH2(t *testing.T) {
	// End-to-end energies for the stretched geometry, cross-checked
	// against an independent evaluation of the same integrals.
	m := h2Stretched(t, "6-31g")
	cfg := DefaultSCFConfig()
	cfg.BasisName = "6-31g"
	res, _, err := PerturbationEnergy(m, cfg)
	require.NoError(t, err)
	assert.InDelta(t, -1.0313309083, res.EHF, 1e-7)
	assert.InDelta(t, -1.0570227140, res.Total, 1e-7)

	emin, err := MeanFieldEnergy(m.Atoms, STO3GParams(2), cfg)
	require.NoError(t, err)
	assert.InDelta(t, -0.9658392068, emin, 1e-7)

	pct, err := Compare(emin, res.Total)
	require.NoError(t, err)
	assert.InDelta(t, 8.627, pct, 1e-2)
}

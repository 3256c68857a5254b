package main

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Literature value for H2/STO-3G at R = 1.4 Bohr (Szabo & Ostlund, Table 3.5).
const eH2STO3G = -1.1167

func TestRHFH2STO3G(t *testing.T) {
	m := h2(t, 1.4*a_B, "sto-3g")
	wf, err := RunRHF(m, DefaultSCFConfig())
	require.NoError(t, err)
	assert.InDelta(t, eH2STO3G, wf.Energy, 2e-3)
}

func TestRHFWavefunctionShape(t *testing.T) {
	m := h2(t, 1.4*a_B, "6-31g")
	wf, err := RunRHF(m, DefaultSCFConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, wf.Nocc)
	require.Len(t, wf.Eps, 4)
	assert.True(t, sort.Float64sAreSorted(wf.Eps), "orbital energies must come out ascending")
	assert.Less(t, wf.Eps[0], 0.0, "occupied orbital of H2 is bound")
	assert.Greater(t, wf.Eps[wf.Nocc], wf.Eps[wf.Nocc-1], "positive HOMO-LUMO gap")

	r, c := wf.C.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 4, c)
	require.Len(t, wf.ERI, 4)
}

func TestRHFDeterminism(t *testing.T) {
	run := func() *Wavefunction {
		m := h2(t, 1.4*a_B, "6-31g")
		wf, err := RunRHF(m, DefaultSCFConfig())
		require.NoError(t, err)
		return wf
	}
	a, b := run(), run()
	assert.Equal(t, a.Energy, b.Energy, "repeated runs must be bit-identical")
	assert.Equal(t, a.Eps, b.Eps)
}

func TestRHFOddElectronCount(t *testing.T) {
	var m Molecule
	m.Atoms = []Atom{{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}}}
	require.NoError(t, m.getBasis("sto-3g"))
	_, err := RunRHF(&m, DefaultSCFConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed-shell")
}

func TestRHFNoBasis(t *testing.T) {
	var m Molecule
	m.Atoms = []Atom{
		{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}},
		{Z: 1, Name: "H2", Coords: [3]float64{0, 0, 0.74}},
	}
	_, err := RunRHF(&m, DefaultSCFConfig())
	require.Error(t, err)
}

func TestRHFNonConvergence(t *testing.T) {
	m := h2(t, 1.4*a_B, "sto-3g")
	cfg := DefaultSCFConfig()
	cfg.MaxIter = 1
	_, err := RunRHF(m, cfg)
	require.ErrorIs(t, err, ErrSCFNotConverged)
}

func TestRHFAgreesWithPlainMeanField(t *testing.T) {
	m := h2(t, 1.4*a_B, "sto-3g")
	wf, err := RunRHF(m, DefaultSCFConfig())
	require.NoError(t, err)

	emf, err := MeanFieldEnergy(m.Atoms, STO3GParams(2), DefaultSCFConfig())
	require.NoError(t, err)
	assert.InDelta(t, wf.Energy, emf, 1e-6, "both solvers target the same fixed point")
}

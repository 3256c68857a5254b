package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanFieldH2STO3G(t *testing.T) {
	atoms := []Atom{
		{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}},
		{Z: 1, Name: "H2", Coords: [3]float64{0, 0, 1.4 * a_B}},
	}
	e, err := MeanFieldEnergy(atoms, STO3GParams(2), DefaultSCFConfig())
	require.NoError(t, err)
	assert.InDelta(t, eH2STO3G, e, 2e-3)
}

func TestMeanFieldDeterminism(t *testing.T) {
	atoms := []Atom{
		{Z: 1, Name: "H1", Coords: [3]float64{0, 0, -0.6614}},
		{Z: 1, Name: "H2", Coords: [3]float64{0, 0, 0.6614}},
	}
	a, err := MeanFieldEnergy(atoms, STO3GParams(2), DefaultSCFConfig())
	require.NoError(t, err)
	b, err := MeanFieldEnergy(atoms, STO3GParams(2), DefaultSCFConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMeanFieldOddElectrons(t *testing.T) {
	atoms := []Atom{{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}}}
	_, err := MeanFieldEnergy(atoms, STO3GParams(1), DefaultSCFConfig())
	require.Error(t, err)
}

func TestBasisParamsMismatch(t *testing.T) {
	atoms := []Atom{
		{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}},
		{Z: 1, Name: "H2", Coords: [3]float64{0, 0, 0.74}},
	}
	_, err := MeanFieldEnergy(atoms, STO3GParams(1), DefaultSCFConfig())
	require.Error(t, err)

	bad := BasisParams{Shells: [][]SShell{
		{{Exps: []float64{1.0, 2.0}, Coeffs: []float64{1.0}}},
		{{Exps: []float64{1.0}, Coeffs: []float64{1.0}}},
	}}
	_, err = MeanFieldEnergy(atoms, bad, DefaultSCFConfig())
	require.Error(t, err)
}

func TestMeanFieldCustomExponents(t *testing.T) {
	// Scaling all exponents far away from the optimum must not lower the
	// energy below the standard contraction (variational bound).
	atoms := []Atom{
		{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}},
		{Z: 1, Name: "H2", Coords: [3]float64{0, 0, 1.4 * a_B}},
	}
	ref, err := MeanFieldEnergy(atoms, STO3GParams(2), DefaultSCFConfig())
	require.NoError(t, err)

	loose := STO3GParams(2)
	for i := range loose.Shells {
		for j := range loose.Shells[i] {
			for k := range loose.Shells[i][j].Exps {
				loose.Shells[i][j].Exps[k] *= 4.0
			}
		}
	}
	e, err := MeanFieldEnergy(atoms, loose, DefaultSCFConfig())
	require.NoError(t, err)
	assert.Greater(t, e, ref)
}

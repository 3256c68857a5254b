// mp2.go --  This file is part of goMP2 project.
//
//	goMP2 is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MP2Result is the energy breakdown of one perturbation run.
type MP2Result struct {
	EHF   float64 // mean-field reference energy
	EOS   float64 // opposite-spin second-order term
	ESS   float64 // same-spin second-order term
	Total float64 // EHF + EOS + ESS
}

func (r MP2Result) Ecorr() float64 {
	return r.EOS + r.ESS
}

func make4(d1, d2, d3, d4 int) [][][][]float64 {
	res := make([][][][]float64, d1)
	for i := range res {
		res[i] = make([][][]float64, d2)
		for j := range res[i] {
			res[i][j] = make([][]float64, d3)
			for k := range res[i][j] {
				res[i][j][k] = make([]float64, d4)
			}
		}
	}
	return res
}

// fourIndexTransform contracts each index of the AO tensor with one
// coefficient matrix in turn. Each Cn is NAO x (block size); the result is
// indexed by the Cn column blocks in order. Linear in every Cn separately,
// which is what the property tests probe.
func fourIndexTransform(V [][][][]float64, C1, C2, C3, C4 mat.Matrix) [][][][]float64 {
	n := len(V)
	_, n1 := C1.Dims()
	_, n2 := C2.Dims()
	_, n3 := C3.Dims()
	_, n4 := C4.Dims()

	t1 := make4(n1, n, n, n)
	for p := 0; p < n1; p++ {
		for nu := 0; nu < n; nu++ {
			for la := 0; la < n; la++ {
				for si := 0; si < n; si++ {
					sum := 0.0
					for mu := 0; mu < n; mu++ {
						sum += C1.At(mu, p) * V[mu][nu][la][si]
					}
					t1[p][nu][la][si] = sum
				}
			}
		}
	}

	t2 := make4(n1, n2, n, n)
	for p := 0; p < n1; p++ {
		for q := 0; q < n2; q++ {
			for la := 0; la < n; la++ {
				for si := 0; si < n; si++ {
					sum := 0.0
					for nu := 0; nu < n; nu++ {
						sum += C2.At(nu, q) * t1[p][nu][la][si]
					}
					t2[p][q][la][si] = sum
				}
			}
		}
	}

	t3 := make4(n1, n2, n3, n)
	for p := 0; p < n1; p++ {
		for q := 0; q < n2; q++ {
			for r := 0; r < n3; r++ {
				for si := 0; si < n; si++ {
					sum := 0.0
					for la := 0; la < n; la++ {
						sum += C3.At(la, r) * t2[p][q][la][si]
					}
					t3[p][q][r][si] = sum
				}
			}
		}
	}

	t4 := make4(n1, n2, n3, n4)
	for p := 0; p < n1; p++ {
		for q := 0; q < n2; q++ {
			for r := 0; r < n3; r++ {
				for s := 0; s < n4; s++ {
					sum := 0.0
					for si := 0; si < n; si++ {
						sum += C4.At(si, s) * t3[p][q][r][si]
					}
					t4[p][q][r][s] = sum
				}
			}
		}
	}
	return t4
}

// TransformAOMO restricts the AO repulsion tensor to the
// (occupied, virtual, occupied, virtual) MO block: element [i][a][j][b] is
// (ia|jb) in chemists' notation.
func TransformAOMO(V [][][][]float64, C *mat.Dense, nocc int) [][][][]float64 {
	n := len(V)
	Cocc := C.Slice(0, n, 0, nocc)
	Cvirt := C.Slice(0, n, nocc, n)
	return fourIndexTransform(V, Cocc, Cvirt, Cocc, Cvirt)
}

// Denominators builds 1/(e_i - e_a + e_j - e_b) over the
// (occupied, virtual, occupied, virtual) block. Near-degenerate orbital
// pairs are not guarded; a vanishing gap is a breakdown of the perturbation
// expansion itself, not of this code.
func Denominators(eps []float64, nocc int) [][][][]float64 {
	nvirt := len(eps) - nocc
	res := make4(nocc, nvirt, nocc, nvirt)
	for i := 0; i < nocc; i++ {
		for a := 0; a < nvirt; a++ {
			for j := 0; j < nocc; j++ {
				for b := 0; b < nvirt; b++ {
					res[i][a][j][b] = 1.0 / (eps[i] - eps[nocc+a] + eps[j] - eps[nocc+b])
				}
			}
		}
	}
	return res
}

// MP2Energy sums the second-order terms. The opposite-spin term weights the
// squared integrals; the same-spin term weights the integrals against their
// antisymmetrized form (second and fourth indices swapped), which encodes
// the Pauli antisymmetry of same-spin pairs.
func MP2Energy(moInts, denom [][][][]float64) (os, ss float64) {
	for i := range moInts {
		for a := range moInts[i] {
			for j := range moInts[i][a] {
				for b := range moInts[i][a][j] {
					iajb := moInts[i][a][j][b]
					ibja := moInts[i][b][j][a]
					os += iajb * iajb * denom[i][a][j][b]
					ss += iajb * (iajb - ibja) * denom[i][a][j][b]
				}
			}
		}
	}
	return os, ss
}

// PerturbationEnergy runs the full pipeline: mean-field solve, AO->MO
// transformation, denominator build, second-order summation.
func PerturbationEnergy(m *Molecule, cfg SCFConfig) (MP2Result, *Wavefunction, error) {
	wf, err := RunRHF(m, cfg)
	if err != nil {
		return MP2Result{}, nil, fmt.Errorf("mean-field reference: %w", err)
	}
	res, err := PerturbationFromWavefunction(wf)
	return res, wf, err
}

// PerturbationFromWavefunction computes the second-order correction for an
// already converged reference, so that a single solve can feed several
// property checks.
func PerturbationFromWavefunction(wf *Wavefunction) (MP2Result, error) {
	n := len(wf.Eps)
	if wf.Nocc <= 0 || wf.Nocc >= n {
		return MP2Result{}, fmt.Errorf("no virtual orbitals: nocc = %d of %d", wf.Nocc, n)
	}
	moInts := TransformAOMO(wf.ERI, wf.C, wf.Nocc)
	denom := Denominators(wf.Eps, wf.Nocc)
	os, ss := MP2Energy(moInts, denom)
	return MP2Result{
		EHF:   wf.Energy,
		EOS:   os,
		ESS:   ss,
		Total: wf.Energy + os + ss,
	}, nil
}

// Compare returns the relative deviation of a from b in percent,
// 100*|a-b|/|b|. The second argument is the denominator on purpose: the
// pipeline divides by the perturbation-corrected energy. A zero b is
// rejected rather than propagating Inf.
func Compare(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("compare: reference energy is zero")
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	if b < 0 {
		b = -b
	}
	return 100 * d / b, nil
}

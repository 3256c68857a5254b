// meanfield.go --  This file is part of goMP2 project.
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

// A second, independent mean-field path: a plain fixed-point SCF over a
// basis whose exponents and contraction coefficients are explicit
// parameters of the call. It cross-checks the DIIS solver and serves as the
// minimal-basis reference of the energy comparison.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SShell is one contracted s-type shell given as raw parameters.
type SShell struct {
	Exps, Coeffs []float64
}

// BasisParams lists the shells of every atom, outer index parallel to the
// atom list.
type BasisParams struct {
	Shells [][]SShell
}

// STO3GParams returns the standard three-exponent hydrogen contraction for
// natoms atoms.
func STO3GParams(natoms int) BasisParams {
	var bp BasisParams
	for i := 0; i < natoms; i++ {
		bp.Shells = append(bp.Shells, []SShell{{
			Exps:   []float64{0.3425250914e+01, 0.6239137298e+00, 0.1688554040e+00},
			Coeffs: []float64{0.1543289673e+00, 0.5353281423e+00, 0.4446345422e+00},
		}})
	}
	return bp
}

// AOs expands the parameters into contracted basis functions centered on
// the nuclei.
func (bp BasisParams) AOs(atoms []Atom) ([]AO, error) {
	if len(bp.Shells) != len(atoms) {
		return nil, fmt.Errorf("basis parameters for %d atoms, geometry has %d", len(bp.Shells), len(atoms))
	}
	var res []AO
	for i, shells := range bp.Shells {
		center := atoms[i].BohrCoords()
		for _, sh := range shells {
			if len(sh.Exps) != len(sh.Coeffs) {
				return nil, fmt.Errorf("atom %d: %d exponents vs %d coefficients", i+1, len(sh.Exps), len(sh.Coeffs))
			}
			var ao AO
			for k := range sh.Exps {
				ao.PGs = append(ao.PGs, PrimitiveGaussian{sh.Exps[k], sh.Coeffs[k], center, [3]int{0, 0, 0}})
			}
			res = append(res, ao)
		}
	}
	return res, nil
}

func computeG(denMat [][]float64, Vee [][][][]float64) [][]float64 {
	res := zeros2(len(denMat))
	for i := range Vee {
		for j := range Vee {
			for k := range Vee {
				for l := range Vee {
					J := Vee[i][j][k][l]
					K := Vee[i][l][k][j]
					res[i][j] += denMat[k][l] * (J - 0.5*K)
				}
			}
		}
	}
	return res
}

func computeDensityMat(MOs [][]float64, nOcc int) [][]float64 {
	nBasis := len(MOs)
	res := zeros2(nBasis)
	occ := 2.0
	for i := 0; i < nBasis; i++ {
		for j := 0; j < nBasis; j++ {
			for oo := 0; oo < nOcc; oo++ {
				res[i][j] += occ * MOs[i][oo] * MOs[j][oo]
			}
		}
	}
	return res
}

func computeEnergy(D, T, Vne, G [][]float64) float64 {
	nBasis := len(T)
	res := 0.0
	for i := 0; i < nBasis; i++ {
		for j := 0; j < nBasis; j++ {
			res += D[i][j] * (T[i][j] + Vne[i][j] + 0.5*G[i][j])
		}
	}
	return res
}

// MeanFieldEnergy runs a plain SCF (no DIIS) over the parameterized basis
// and returns the total mean-field energy including nuclear repulsion.
func MeanFieldEnergy(atoms []Atom, params BasisParams, cfg SCFConfig) (float64, error) {
	nelec := 0
	for _, a := range atoms {
		nelec += a.Z
	}
	if nelec%2 != 0 {
		return 0, fmt.Errorf("odd electron count %d: not a closed-shell molecule", nelec)
	}
	nOcc := nelec / 2

	mol, err := params.AOs(atoms)
	if err != nil {
		return 0, err
	}
	nBasis := len(mol)
	if nOcc > nBasis {
		return 0, fmt.Errorf("%d occupied orbitals do not fit in %d basis functions", nOcc, nBasis)
	}

	S := Overlap(mol)
	T := Kinetic(mol)
	Ven := V_en(mol, atoms)
	Vee := V_ee(mol)
	Enn := E_nn(atoms)

	SSqrtInv := mat.NewDense(nBasis, nBasis, flatten(MatrixSqrtInverse(S)))
	H1 := mat.NewDense(nBasis, nBasis, flatten(T))
	H1.Add(H1, mat.NewDense(nBasis, nBasis, flatten(Ven)))

	densityMat := zeros2(nBasis)
	res := 0.0
	EPrev := 0.0
	for i := 0; i < cfg.MaxIter; i++ {
		EPrev = res

		G := computeG(densityMat, Vee)

		F := mat.NewDense(nBasis, nBasis, flatten(G))
		F.Add(F, H1)
		F.Mul(F, SSqrtInv)
		F.Mul(SSqrtInv, F)

		FSym := mat.NewSymDense(nBasis, F.RawMatrix().Data)
		var eigsym mat.EigenSym
		if ok := eigsym.Factorize(FSym, true); !ok {
			return 0, fmt.Errorf("transformed Fock eigendecomposition failed at iteration %d", i+1)
		}
		var ev mat.Dense
		eigsym.VectorsTo(&ev)
		ev.Mul(SSqrtInv, &ev)

		MOs := make([][]float64, nBasis)
		for r := range MOs {
			MOs[r] = ev.RawRowView(r)
		}
		densityMat = computeDensityMat(MOs, nOcc)
		res = computeEnergy(densityMat, T, Ven, G)

		if i > 0 && math.Abs(EPrev-res) < cfg.TolE {
			OutputLogger.Println("Mean field converged after step ", i+1)
			return res + Enn, nil
		}
	}
	return 0, fmt.Errorf("%w after %d steps (last E = %.10f)", ErrSCFNotConverged, cfg.MaxIter, res+Enn)
}

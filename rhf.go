// rhf.go --  This file is part of goMP2 project.
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
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var ErrSCFNotConverged = errors.New("SCF not converged")

// SCFConfig carries every knob of a mean-field run explicitly, instead of
// the ambient module-level state the usual solver packages keep.
type SCFConfig struct {
	BasisName string
	TolE      float64 // convergence threshold on the energy change
	TolD      float64 // convergence threshold on the DIIS residual RMS
	MaxIter   int
	Algorithm string // "conventional"; "df" is recognized but falls back
}

func DefaultSCFConfig() SCFConfig {
	return SCFConfig{
		BasisName: "sto-3g",
		TolE:      1e-8,
		TolD:      1e-8,
		MaxIter:   100,
		Algorithm: "conventional",
	}
}

// Wavefunction is the converged mean-field reference: total energy, the
// occupied orbital count, orbital energies in ascending order, the AO->MO
// coefficient matrix (columns are MOs, occupied first) and the AO-basis
// electron repulsion tensor.
type Wavefunction struct {
	Energy float64
	Nocc   int
	Eps    []float64
	C      *mat.Dense
	ERI    [][][][]float64
}

type RHF struct {
	Occupied                   int
	S, T, Ven                  [][]float64
	Vnn                        float64
	Vee                        [][][][]float64
	S2Inv, H1, Cij, DensMat, G [][]float64
	Eps                        []float64
	F_list, DIIS_R             []*mat.Dense
	cfg                        SCFConfig
}

// RHFinit computes all AO integrals and prepares the initial core guess.
func (m *Molecule) RHFinit(cfg SCFConfig) (*RHF, error) {
	var result RHF
	result.cfg = cfg

	if cfg.Algorithm != "" && cfg.Algorithm != "conventional" {
		WarningLogger.Println("Integral algorithm ", cfg.Algorithm, " not available, using conventional in-core integrals.")
	}

	occ, err := m.NOcc()
	if err != nil {
		return nil, err
	}
	result.Occupied = occ
	if m.NAO() == 0 {
		return nil, fmt.Errorf("no basis functions: molecule has no basis assigned")
	}
	if occ > m.NAO() {
		return nil, fmt.Errorf("%d occupied orbitals do not fit in %d basis functions", occ, m.NAO())
	}

	result.S, result.T, result.Ven, result.Vee = m.CalculateIntegrals()
	InfoLogger.Println("Integrals done. NAO = ", m.NAO())

	result.S2Inv = MatrixSqrtInverse(result.S)
	result.Vnn = m.NucNuc()
	result.BuildInitialGuess()
	result.BuildDensMat()
	return &result, nil
}

// BuildInitialGuess diagonalizes the core Hamiltonian in the orthogonalized
// basis and seeds the MO coefficients from it.
func (rhf *RHF) BuildInitialGuess() {
	nBasis := len(rhf.T)
	H1 := mat.NewDense(nBasis, nBasis, flatten(rhf.T))
	H1.Add(H1, mat.NewDense(nBasis, nBasis, flatten(rhf.Ven)))

	rhf.H1 = make([][]float64, nBasis)
	for i := range rhf.H1 {
		rhf.H1[i] = make([]float64, nBasis)
		copy(rhf.H1[i], H1.RawRowView(i))
	}

	SSqrtInv := mat.NewDense(nBasis, nBasis, flatten(rhf.S2Inv))
	H1.Mul(SSqrtInv, H1)
	H1.Mul(H1, SSqrtInv)

	H1Sym := mat.NewSymDense(nBasis, H1.RawMatrix().Data)
	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(H1Sym, true); !ok {
		ErrorLogger.Println("Transformed H1 eigendecomposition failed")
	}

	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	ev.Mul(SSqrtInv, &ev)

	rhf.Eps = eigsym.Values(nil)
	rhf.Cij = make([][]float64, nBasis)
	for i := range rhf.Cij {
		rhf.Cij[i] = make([]float64, nBasis)
		copy(rhf.Cij[i], ev.RawRowView(i))
	}
}

func (rhf *RHF) BuildDensMat() {
	nBasis := len(rhf.Cij)
	rhf.DensMat = zeros2(nBasis)
	for i := 0; i < nBasis; i++ {
		for j := 0; j < nBasis; j++ {
			for oo := 0; oo < rhf.Occupied; oo++ {
				rhf.DensMat[i][j] += rhf.Cij[i][oo] * rhf.Cij[j][oo]
			}
		}
	}
}

// BuildG forms the two-electron part of the Fock matrix from the in-core
// ERI tensor and the current density.
func (rhf *RHF) BuildG() {
	nBasis := len(rhf.T)
	rhf.G = zeros2(nBasis)
	for p := 0; p < nBasis; p++ {
		for q := 0; q < nBasis; q++ {
			sum := 0.0
			for r := 0; r < nBasis; r++ {
				for s := 0; s < nBasis; s++ {
					sum += rhf.DensMat[r][s] * (2*rhf.Vee[p][q][r][s] - rhf.Vee[p][r][q][s])
				}
			}
			rhf.G[p][q] = sum
		}
	}
}

func (rhf *RHF) CalcEnergy() float64 {
	nBasis := len(rhf.T)
	res := 0.0
	for i := 0; i < nBasis; i++ {
		for j := 0; j < nBasis; j++ {
			res += rhf.DensMat[i][j] * (2*rhf.H1[i][j] + rhf.G[i][j])
		}
	}
	return res + rhf.Vnn
}

// BuildDIIS_R stores the orthogonalized DIIS residual
// A.(F.D.S - S.D.F).A with A = S^{-1/2}.
func (rhf *RHF) BuildDIIS_R(F, S2inv *mat.Dense) {
	nBasis := len(rhf.T)
	term1 := mat.NewDense(nBasis, nBasis, nil)
	term2 := mat.NewDense(nBasis, nBasis, nil)
	S := mat.NewDense(nBasis, nBasis, flatten(rhf.S))
	DM := mat.NewDense(nBasis, nBasis, flatten(rhf.DensMat))
	term1.Mul(F, DM)
	term1.Mul(term1, S)
	term2.Mul(S, DM)
	term2.Mul(term2, F)
	term1.Sub(term1, term2)
	term1.Mul(S2inv, term1)
	term1.Mul(term1, S2inv)
	rhf.DIIS_R = append(rhf.DIIS_R, term1)
}

func (rhf *RHF) CalcdRMS() float64 {
	res := mat.DenseCopyOf(rhf.DIIS_R[len(rhf.DIIS_R)-1])
	res.MulElem(res, res)
	return math.Sqrt(stat.Mean(res.RawMatrix().Data, nil))
}

// BuildB assembles the DIIS extrapolation system.
func (rhf *RHF) BuildB() *mat.Dense {
	bDim := len(rhf.F_list) + 1
	rDim := len(rhf.T)
	result := mat.NewDense(bDim, bDim, nil)

	for i := 0; i < (bDim - 1); i++ {
		result.Set(i, bDim-1, -1)
		result.Set(bDim-1, i, -1)
	}
	for i := range rhf.F_list {
		for j := range rhf.F_list {
			b := mat.NewDense(rDim, rDim, nil)
			b.MulElem(rhf.DIIS_R[i], rhf.DIIS_R[j])
			result.Set(i, j, mat.Sum(b))
		}
	}
	return result
}

// SCF_DIIS iterates the self-consistent field with DIIS extrapolation until
// both the energy change and the residual RMS fall below the configured
// thresholds. The one failure mode is non-convergence within MaxIter; there
// is no retry with relaxed settings.
func (rhf *RHF) SCF_DIIS() (*Wavefunction, error) {
	nBasis := len(rhf.H1)
	res := 0.0
	EPrev := 0.0

	H1 := mat.NewDense(nBasis, nBasis, flatten(rhf.H1))
	SSqrtInv := mat.NewDense(nBasis, nBasis, flatten(rhf.S2Inv))

	for i := 0; i < rhf.cfg.MaxIter; i++ {
		EPrev = res
		rhf.BuildG()
		res = rhf.CalcEnergy()

		F := mat.NewDense(nBasis, nBasis, flatten(rhf.G))
		F.Add(F, H1)

		rhf.F_list = append(rhf.F_list, mat.DenseCopyOf(F))
		rhf.BuildDIIS_R(F, SSqrtInv)
		dRMS := rhf.CalcdRMS()

		OutputLogger.Println("Iteration ", i+1, ". Energy = ", res, ", dE = ", EPrev-res, ", dRMS = ", dRMS)
		if i > 0 && math.Abs(EPrev-res) < rhf.cfg.TolE && dRMS < rhf.cfg.TolD {
			OutputLogger.Println("SCF converged after step ", i+1)
			return rhf.wavefunction(res), nil
		}

		if i > 0 {
			bmat := rhf.BuildB()
			rhs := mat.NewVecDense((len(rhf.F_list) + 1), nil)
			rhs.SetVec(len(rhf.F_list), -1)

			var lu mat.LU
			lu.Factorize(bmat)
			var coefs mat.VecDense
			if err := lu.SolveVecTo(&coefs, false, rhs); err == nil {
				F = mat.NewDense(nBasis, nBasis, nil)
				for j := range rhf.F_list {
					fpart := mat.NewDense(nBasis, nBasis, nil)
					fpart.Scale(coefs.AtVec(j), rhf.F_list[j])
					F.Add(F, fpart)
				}
			}
		}

		F.Mul(F, SSqrtInv)
		F.Mul(SSqrtInv, F)
		FSym := mat.NewSymDense(nBasis, F.RawMatrix().Data)
		var eigsym mat.EigenSym
		var ev mat.Dense
		if ok := eigsym.Factorize(FSym, true); !ok {
			return nil, fmt.Errorf("transformed Fock eigendecomposition failed at iteration %d", i+1)
		}
		eigsym.VectorsTo(&ev)
		ev.Mul(SSqrtInv, &ev)

		rhf.Eps = eigsym.Values(nil)
		for i := range rhf.Cij {
			copy(rhf.Cij[i], ev.RawRowView(i))
		}
		rhf.BuildDensMat()
	}

	OutputLogger.Println("Warning! SCF NOT converged after step ", rhf.cfg.MaxIter)
	return nil, fmt.Errorf("%w after %d steps (last E = %.10f)", ErrSCFNotConverged, rhf.cfg.MaxIter, res)
}

func (rhf *RHF) wavefunction(energy float64) *Wavefunction {
	nBasis := len(rhf.Cij)
	C := mat.NewDense(nBasis, nBasis, nil)
	for i := range rhf.Cij {
		for j := range rhf.Cij[i] {
			C.Set(i, j, rhf.Cij[i][j])
		}
	}
	eps := make([]float64, len(rhf.Eps))
	copy(eps, rhf.Eps)
	return &Wavefunction{
		Energy: energy,
		Nocc:   rhf.Occupied,
		Eps:    eps,
		C:      C,
		ERI:    rhf.Vee,
	}
}

// RunRHF is the whole mean-field solve: integrals, core guess, SCF.
func RunRHF(m *Molecule, cfg SCFConfig) (*Wavefunction, error) {
	rhf, err := m.RHFinit(cfg)
	if err != nil {
		return nil, err
	}
	return rhf.SCF_DIIS()
}

// integrals.go --  This file is part of goMP2 project.
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

// Integrals over contracted s-type Gaussians. All centers and exponents are
// in atomic units, all results in Hartree.

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
)

type PrimitiveGaussian struct {
	Alpha  float64
	Coeff  float64
	Coords [3]float64 // center, Bohr
	L      [3]int     // angular momentum vector
}

func (p PrimitiveGaussian) NormCoeff() float64 {
	return math.Pow((2 * p.Alpha / math.Pi), 0.75)
}

// AO is one contracted basis function.
type AO struct {
	PGs []PrimitiveGaussian
}

func QQ(v1, v2 [3]float64) float64 {
	vv1 := mat.NewVecDense(3, v1[:])
	vv2 := mat.NewVecDense(3, v2[:])
	dist := mat.NewVecDense(3, nil)
	dist.SubVec(vv2, vv1)
	dist.MulElemVec(dist, dist)
	return mat.Sum(dist)
}

func CalcP(a1, a2 float64, v1, v2 [3]float64) [3]float64 {
	var res [3]float64
	for i := range res {
		res[i] = a1*v1[i] + a2*v2[i]
	}
	return res
}

func CalcPp(a float64, v [3]float64) [3]float64 {
	var res [3]float64
	for i := range res {
		res[i] = v[i] / a
	}
	return res
}

func myDot(v1, v2 [3]float64) float64 {
	return v1[0]*v2[0] + v1[1]*v2[1] + v1[2]*v2[2]
}

func zeros2(n int) [][]float64 {
	res := make([][]float64, n)
	for i := range res {
		res[i] = make([]float64, n)
	}
	return res
}

// Overlap builds the AO overlap matrix S.
func Overlap(m []AO) [][]float64 {
	nAO := len(m)
	res := zeros2(nAO)
	for i := 0; i < nAO; i++ {
		for j := 0; j < nAO; j++ {
			for k := range m[i].PGs {
				for l := range m[j].PGs {
					N := m[i].PGs[k].NormCoeff() * m[j].PGs[l].NormCoeff()
					p := m[i].PGs[k].Alpha + m[j].PGs[l].Alpha
					q := m[i].PGs[k].Alpha * m[j].PGs[l].Alpha / p
					Q2 := QQ(m[i].PGs[k].Coords, m[j].PGs[l].Coords)
					res[i][j] += N * m[i].PGs[k].Coeff * m[j].PGs[l].Coeff * math.Exp(-q*Q2) * math.Pow((math.Pi/p), 1.5)
				}
			}
		}
	}
	return res
}

// Kinetic builds the AO kinetic energy matrix T.
func Kinetic(m []AO) [][]float64 {
	nAO := len(m)
	res := zeros2(nAO)
	for i := 0; i < nAO; i++ {
		for j := 0; j < nAO; j++ {
			for k := range m[i].PGs {
				for l := range m[j].PGs {
					N := m[i].PGs[k].NormCoeff() * m[j].PGs[l].NormCoeff()
					p := m[i].PGs[k].Alpha + m[j].PGs[l].Alpha
					q := m[i].PGs[k].Alpha * m[j].PGs[l].Alpha / p
					Q2 := QQ(m[i].PGs[k].Coords, m[j].PGs[l].Coords)

					P := CalcP(m[i].PGs[k].Alpha, m[j].PGs[l].Alpha, m[i].PGs[k].Coords, m[j].PGs[l].Coords)
					Pp := CalcPp(p, P)
					PGx2 := math.Pow((Pp[0] - m[j].PGs[l].Coords[0]), 2)
					PGy2 := math.Pow((Pp[1] - m[j].PGs[l].Coords[1]), 2)
					PGz2 := math.Pow((Pp[2] - m[j].PGs[l].Coords[2]), 2)

					c1c2 := m[i].PGs[k].Coeff * m[j].PGs[l].Coeff
					s := N * c1c2 * math.Exp(-q*Q2) * math.Pow((math.Pi/p), 1.5)

					a2 := m[j].PGs[l].Alpha
					res[i][j] += 3 * a2 * s
					res[i][j] -= 2 * a2 * a2 * s * (PGx2 + 0.5/p)
					res[i][j] -= 2 * a2 * a2 * s * (PGy2 + 0.5/p)
					res[i][j] -= 2 * a2 * a2 * s * (PGz2 + 0.5/p)
				}
			}
		}
	}
	return res
}

// boys is the Boys function F_n(x), via the regularized incomplete gamma.
func boys(x float64, n int) float64 {
	nf := float64(n)
	if x == 0 {
		return 1.0 / (2.0*nf + 1)
	}
	return mathext.GammaIncReg(nf+0.5, x) * math.Gamma(nf+0.5) * (1.0 / (2.0 * math.Pow(x, (nf+0.5))))
}

// V_en builds the electron-nucleus attraction matrix.
func V_en(m []AO, atoms []Atom) [][]float64 {
	nAO := len(m)
	res := zeros2(nAO)
	for at := range atoms {
		R := atoms[at].BohrCoords()
		for i := 0; i < nAO; i++ {
			for j := 0; j < nAO; j++ {
				for k := range m[i].PGs {
					for l := range m[j].PGs {
						N := m[i].PGs[k].NormCoeff() * m[j].PGs[l].NormCoeff()
						p := m[i].PGs[k].Alpha + m[j].PGs[l].Alpha
						q := m[i].PGs[k].Alpha * m[j].PGs[l].Alpha / p
						Q2 := QQ(m[i].PGs[k].Coords, m[j].PGs[l].Coords)

						P := CalcP(m[i].PGs[k].Alpha, m[j].PGs[l].Alpha, m[i].PGs[k].Coords, m[j].PGs[l].Coords)
						Pp := CalcPp(p, P)
						PG2 := math.Pow(Pp[0]-R[0], 2) + math.Pow(Pp[1]-R[1], 2) + math.Pow(Pp[2]-R[2], 2)

						c1c2 := m[i].PGs[k].Coeff * m[j].PGs[l].Coeff
						res[i][j] += -float64(atoms[at].Z) * N * c1c2 * math.Exp(-q*Q2) * (2.0 * math.Pi / p) * boys(p*PG2, 0)
					}
				}
			}
		}
	}
	return res
}

// V_ee builds the rank-4 electron repulsion tensor (ij|kl) in chemists'
// notation. The 8-fold permutation symmetry holds by construction.
func V_ee(m []AO) [][][][]float64 {
	nAO := len(m)
	res := make([][][][]float64, nAO)
	for i := range res {
		res[i] = make([][][]float64, nAO)
		for j := range res[i] {
			res[i][j] = make([][]float64, nAO)
			for k := range res[i][j] {
				res[i][j][k] = make([]float64, nAO)
			}
		}
	}

	for i := range m {
		for j := range m {
			for k := range m {
				for l := range m {
					for ii := range m[i].PGs {
						for jj := range m[j].PGs {
							for kk := range m[k].PGs {
								for ll := range m[l].PGs {
									N := m[i].PGs[ii].NormCoeff() * m[j].PGs[jj].NormCoeff() * m[k].PGs[kk].NormCoeff() * m[l].PGs[ll].NormCoeff()
									cicjckcl := m[i].PGs[ii].Coeff * m[j].PGs[jj].Coeff * m[k].PGs[kk].Coeff * m[l].PGs[ll].Coeff

									pij := m[i].PGs[ii].Alpha + m[j].PGs[jj].Alpha
									pkl := m[k].PGs[kk].Alpha + m[l].PGs[ll].Alpha
									Pij := CalcP(m[i].PGs[ii].Alpha, m[j].PGs[jj].Alpha, m[i].PGs[ii].Coords, m[j].PGs[jj].Coords)
									Pkl := CalcP(m[k].PGs[kk].Alpha, m[l].PGs[ll].Alpha, m[k].PGs[kk].Coords, m[l].PGs[ll].Coords)
									Ppij := CalcPp(pij, Pij)
									Ppkl := CalcPp(pkl, Pkl)
									PpijPpkl := [3]float64{(Ppij[0] - Ppkl[0]), (Ppij[1] - Ppkl[1]), (Ppij[2] - Ppkl[2])}
									PpijPpkl2 := myDot(PpijPpkl, PpijPpkl)
									denom := (1.0 / pij) + (1.0 / pkl)

									qij := m[i].PGs[ii].Alpha * m[j].PGs[jj].Alpha / pij
									qkl := m[k].PGs[kk].Alpha * m[l].PGs[ll].Alpha / pkl
									Qij := [3]float64{(m[i].PGs[ii].Coords[0] - m[j].PGs[jj].Coords[0]), (m[i].PGs[ii].Coords[1] - m[j].PGs[jj].Coords[1]), (m[i].PGs[ii].Coords[2] - m[j].PGs[jj].Coords[2])}
									Qkl := [3]float64{(m[k].PGs[kk].Coords[0] - m[l].PGs[ll].Coords[0]), (m[k].PGs[kk].Coords[1] - m[l].PGs[ll].Coords[1]), (m[k].PGs[kk].Coords[2] - m[l].PGs[ll].Coords[2])}
									Q2ij := myDot(Qij, Qij)
									Q2kl := myDot(Qkl, Qkl)

									term1 := 2.0 * math.Pi * math.Pi / (pij * pkl)
									term2 := math.Sqrt(math.Pi / (pij + pkl))
									term3 := math.Exp(-qij * Q2ij)
									term4 := math.Exp(-qkl * Q2kl)

									res[i][j][k][l] += N * cicjckcl * term1 * term2 * term3 * term4 * boys(PpijPpkl2/denom, 0)
								}
							}
						}
					}
				}
			}
		}
	}
	return res
}

// E_nn is the nuclear repulsion energy.
func E_nn(atoms []Atom) float64 {
	res := 0.0
	for i := range atoms {
		Ri := atoms[i].BohrCoords()
		for j := 0; j < i; j++ {
			Rj := atoms[j].BohrCoords()
			d := [3]float64{Ri[0] - Rj[0], Ri[1] - Rj[1], Ri[2] - Rj[2]}
			res += float64(atoms[i].Z) * float64(atoms[j].Z) / math.Sqrt(myDot(d, d))
		}
	}
	return res
}

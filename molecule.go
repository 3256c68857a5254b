// molecule.go --  This file is part of goMP2 project.
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
	"embed"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

//go:embed data
var dataFS embed.FS

type Molecule struct {
	Atoms []Atom
	AOs   []AO
	Basis string
}

type Atom struct {
	Z      int
	Name   string
	Coords [3]float64 // Angstrom
}

type Orbital struct {
	n, l, nPrim int
	Funcs       []PrimitiveGauss
}

type PrimitiveGauss struct {
	zeta, preExp float64
}

// BohrCoords returns the nuclear position in atomic units.
func (a *Atom) BohrCoords() [3]float64 {
	return [3]float64{a.Coords[0] / a_B, a.Coords[1] / a_B, a.Coords[2] / a_B}
}

func (m *Molecule) addAtoms(data []string, start int, end int) error {
	for i := start; i < end+1; i++ {
		var atm Atom
		words := strings.Fields(data[i])
		if len(words) < 4 {
			return fmt.Errorf("incorrect format of coordinates at input line %d: %q", i+1, data[i])
		}
		atm.Z = slices.Index(ElemData.Symb, words[0])
		if atm.Z < 1 {
			return fmt.Errorf("unknown element %q at input line %d", words[0], i+1)
		}
		atm.Name = words[0] + strconv.Itoa(1+i-start)
		x, _ := strconv.ParseFloat(words[1], 64)
		y, _ := strconv.ParseFloat(words[2], 64)
		z, _ := strconv.ParseFloat(words[3], 64)
		atm.Coords = [3]float64{x, y, z}
		m.Atoms = append(m.Atoms, atm)
	}
	return nil
}

// getBasis looks the shells of every atom up in the embedded basis library
// and expands them into contracted AOs centered on the nuclei.
func (m *Molecule) getBasis(bName string) error {
	m.Basis = strings.ToLower(strings.Fields(bName)[0])
	bFile := "data/basis/" + m.Basis + ".txt"
	data, err := readFSLines(dataFS, bFile)
	if err != nil {
		return fmt.Errorf("cannot read basis file %s: %w", bFile, err)
	}
	m.AOs = nil
	for i, atm := range m.Atoms {
		found := false
		for j, str := range data {
			words := strings.Fields(str)
			if len(words) > 1 {
				if (len(words[0]) > 2) && (words[1] == strings.ToUpper(ElemData.Symb[atm.Z])) {
					OutputLogger.Println(i+1, "Basis for atom ", atm.Name, ": ", data[j+1])
					shells, err := parseShells(data, j+2)
					if err != nil {
						return fmt.Errorf("basis entry for %s: %w", atm.Name, err)
					}
					if err := m.appendAOs(&m.Atoms[i], shells); err != nil {
						return err
					}
					found = true
					break
				}
			}
		}
		if !found {
			return fmt.Errorf("basis %s has no entry for element %s", m.Basis, ElemData.Symb[atm.Z])
		}
	}
	return nil
}

// appendAOs expands the parsed shells into contracted AOs. Only s-type
// shells are evaluated by the integral code in integrals.go.
func (m *Molecule) appendAOs(atm *Atom, shells []Orbital) error {
	center := atm.BohrCoords()
	for _, o := range shells {
		if o.l != 0 {
			return fmt.Errorf("shell with l=%d on atom %s: only s-type shells are supported", o.l, atm.Name)
		}
		var ao AO
		for _, pg := range o.Funcs {
			ao.PGs = append(ao.PGs, PrimitiveGaussian{pg.zeta, pg.preExp, center, [3]int{0, 0, 0}})
		}
		m.AOs = append(m.AOs, ao)
	}
	return nil
}

func parseShells(data []string, pos int) ([]Orbital, error) {
	if pos >= len(data) {
		return nil, fmt.Errorf("truncated basis entry")
	}
	nOrbs, err := strconv.Atoi(strings.Fields(data[pos])[0])
	if err != nil {
		return nil, fmt.Errorf("bad shell count: %w", err)
	}
	pos++
	var shells []Orbital
	for k := 0; k < nOrbs; k++ {
		var orb Orbital
		words := strings.Fields(data[pos])
		if len(words) < 3 {
			return nil, fmt.Errorf("bad shell header: %q", data[pos])
		}
		orb.n, _ = strconv.Atoi(words[0])
		orb.l, _ = strconv.Atoi(words[1])
		orb.nPrim, _ = strconv.Atoi(words[2])
		pos++
		for l := 0; l < orb.nPrim; l++ {
			var pg PrimitiveGauss
			words := strings.Fields(data[pos])
			if len(words) < 2 {
				return nil, fmt.Errorf("bad primitive line: %q", data[pos])
			}
			pg.zeta, _ = strconv.ParseFloat(words[0], 64)
			pg.preExp, _ = strconv.ParseFloat(words[1], 64)
			orb.Funcs = append(orb.Funcs, pg)
			pos++
		}
		shells = append(shells, orb)
	}
	return shells, nil
}

func (m *Molecule) getNelec() int {
	result := 0
	for _, a := range m.Atoms {
		result += a.Z
	}
	return result
}

// NOcc returns the number of doubly occupied orbitals. Odd electron counts
// have no closed-shell single determinant and are rejected.
func (m *Molecule) NOcc() (int, error) {
	n := m.getNelec()
	if n%2 != 0 {
		return 0, fmt.Errorf("odd electron count %d: not a closed-shell molecule", n)
	}
	return n / 2, nil
}

// NAO returns the number of contracted basis functions.
func (m *Molecule) NAO() int {
	return len(m.AOs)
}

// CalculateIntegrals evaluates all AO-basis integrals needed for an SCF run.
func (m *Molecule) CalculateIntegrals() ([][]float64, [][]float64, [][]float64, [][][][]float64) {
	S := Overlap(m.AOs)
	T := Kinetic(m.AOs)
	Vn := V_en(m.AOs, m.Atoms)
	Vee := V_ee(m.AOs)
	return S, T, Vn, Vee
}

// NucNuc is the nuclear repulsion energy in Hartree.
func (m *Molecule) NucNuc() float64 {
	return E_nn(m.Atoms)
}

type Mendeleev struct {
	Z          []int
	Symb, Name []string
	Mass       []float64
}

func (m *Mendeleev) build() {
	data, err := readFSLines(dataFS, "data/mendeleev.csv")
	if err != nil {
		ErrorLogger.Println("Cannot read elements database file 'data/mendeleev.csv': ", err)
		return
	}
	// Z=0 placeholder so that Symb[Z] indexes by atomic number.
	m.Z = append(m.Z, 0)
	m.Symb = append(m.Symb, "X")
	m.Name = append(m.Name, "dummy")
	m.Mass = append(m.Mass, 0)
	for i, str := range data {
		if i == 0 {
			continue
		}
		words := strings.Split(str, ",")
		if len(words) < 4 {
			continue
		}
		z, _ := strconv.Atoi(words[0])
		mass, _ := strconv.ParseFloat(words[3], 64)
		m.Z = append(m.Z, z)
		m.Mass = append(m.Mass, mass)
		m.Symb = append(m.Symb, words[1])
		m.Name = append(m.Name, words[2])
	}
}

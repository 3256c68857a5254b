// xyz.go --  This file is part of goMP2 project.
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
	"fmt"

	chem "github.com/rmera/gochem"
	"golang.org/x/exp/slices"
)

// ReadXYZGeometry loads a geometry from an XYZ file (coordinates in
// Angstrom, first frame only).
func ReadXYZGeometry(fname string) ([]Atom, error) {
	mol, err := chem.XYZFileRead(fname)
	if err != nil {
		return nil, fmt.Errorf("cannot read xyz file %s: %w", fname, err)
	}
	if len(mol.Coords) == 0 {
		return nil, fmt.Errorf("xyz file %s has no coordinates", fname)
	}
	coords := mol.Coords[0]
	atoms := make([]Atom, 0, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		sym := mol.Atom(i).Symbol
		z := slices.Index(ElemData.Symb, sym)
		if z < 1 {
			return nil, fmt.Errorf("unknown element %q in %s", sym, fname)
		}
		atoms = append(atoms, Atom{
			Z:      z,
			Name:   fmt.Sprintf("%s%d", sym, i+1),
			Coords: [3]float64{coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)},
		})
	}
	return atoms, nil
}

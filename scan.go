// scan.go --  This file is part of goMP2 project.
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

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ScanConfig describes a rigid H-H distance scan.
type ScanConfig struct {
	Start, Step float64 // Angstrom
	Steps       int
	WithMP2     bool
	PlotFile    string // PNG output, empty disables plotting
}

// ScanPoint is one row of the scan table; MP2 fields stay zero when the
// scan is mean-field only.
type ScanPoint struct {
	Dist            float64 // Angstrom
	EHF, Ecorr, EMP2 float64
}

// RunScan computes the potential energy curve of H2 over a distance range.
func RunScan(basisName string, cfg SCFConfig, sc ScanConfig) ([]ScanPoint, error) {
	if sc.Steps < 1 || sc.Step <= 0 || sc.Start <= 0 {
		return nil, fmt.Errorf("bad scan range: start %g step %g steps %d", sc.Start, sc.Step, sc.Steps)
	}
	var points []ScanPoint
	dist := sc.Start
	for i := 0; i <= sc.Steps; i++ {
		var m Molecule
		m.Atoms = []Atom{
			{Z: 1, Name: "H1", Coords: [3]float64{0, 0, 0}},
			{Z: 1, Name: "H2", Coords: [3]float64{0, 0, dist}},
		}
		if err := m.getBasis(basisName); err != nil {
			return nil, err
		}

		pt := ScanPoint{Dist: dist}
		if sc.WithMP2 {
			res, _, err := PerturbationEnergy(&m, cfg)
			if err != nil {
				return nil, fmt.Errorf("scan point R = %g: %w", dist, err)
			}
			pt.EHF = res.EHF
			pt.Ecorr = res.Ecorr()
			pt.EMP2 = res.Total
		} else {
			wf, err := RunRHF(&m, cfg)
			if err != nil {
				return nil, fmt.Errorf("scan point R = %g: %w", dist, err)
			}
			pt.EHF = wf.Energy
		}
		points = append(points, pt)
		dist += sc.Step
	}

	if sc.PlotFile != "" {
		if err := PlotScan(points, sc.WithMP2, sc.PlotFile); err != nil {
			return points, err
		}
	}
	return points, nil
}

// PlotScan writes the potential energy curve(s) to a PNG file.
func PlotScan(points []ScanPoint, withMP2 bool, fname string) error {
	p := plot.New()
	p.Title.Text = "H2 potential energy curve"
	p.X.Label.Text = "R(H-H) / Angstrom"
	p.Y.Label.Text = "E / Hartree"

	hf := make(plotter.XYs, len(points))
	for i, pt := range points {
		hf[i].X = pt.Dist
		hf[i].Y = pt.EHF
	}
	if withMP2 {
		mp2 := make(plotter.XYs, len(points))
		for i, pt := range points {
			mp2[i].X = pt.Dist
			mp2[i].Y = pt.EMP2
		}
		if err := plotutil.AddLinePoints(p, "RHF", hf, "MP2", mp2); err != nil {
			return err
		}
	} else {
		if err := plotutil.AddLinePoints(p, "RHF", hf); err != nil {
			return err
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, fname)
}

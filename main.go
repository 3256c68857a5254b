// main.go --  This file is part of goMP2 project.
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
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
)

var (
	WarningLogger = log.New(io.Discard, "WARNING: ", log.Ldate|log.Ltime)
	InfoLogger    = log.New(io.Discard, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger   = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger  = log.New(io.Discard, "", 0)
)

var ElemData Mendeleev

var a_B = 0.52917720859

func init() {
	ElemData.build()
}

func initLog(fname string) {
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}
	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
}

func appInfo() {
	OutputLogger.Println("\n" +
		"                 __  __  ____    ____\n" +
		"   __     ___   /\\ \\/\\ \\/\\  _`\\ /\\  _`\\\n" +
		" /'_ `\\  / __`\\ \\ \\ \\_\\ \\ \\ \\_\\ \\ \\,\\_\\_\\   goMP2\n" +
		"/\\ \\L\\ \\/\\ \\L\\ \\ \\ \\  _  \\ \\ ,__/\\/_-,_/    restricted Hartree-Fock\n" +
		"\\ \\____ \\ \\____/  \\ \\_\\ \\_\\ \\ \\/   /\\____`\\  + second-order perturbation\n" +
		" \\/___L\\ \\/___/    \\/_/\\/_/\\ \\_\\   \\/_____/\n" +
		"   /\\____/                  \\/_/\n" +
		"   \\_/__/")
}

func printOutputDelimiter() {
	OutputLogger.Println(strings.Repeat("-", 70))
}

// RunConfig is everything one input file can request.
type RunConfig struct {
	Task string // "mp2" (default), "rhf" or "scan"
	SCF  SCFConfig
	Scan ScanConfig
	Dump bool
}

func processInput(data []string) (Molecule, RunConfig, error) {
	var atoms, basis bool
	var atomStart, atomEnd int
	var basisName string
	var mol Molecule
	cfg := RunConfig{Task: "mp2", SCF: DefaultSCFConfig()}

	for i := 0; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 {
			continue
		}
		switch strings.ToLower(words[0]) {
		case "atoms":
			atoms = true
			atomStart = i
			var err error
			atomEnd, err = findBlockEnd(i, data, "Atoms")
			if err != nil {
				return mol, cfg, err
			}
			OutputLogger.Print("Parsing input. Atoms block found at lines ", atomStart, " -- ", atomEnd, ".")
		case "basis":
			if _, err := findBlockEnd(i, data, "Basis"); err != nil {
				return mol, cfg, err
			}
			basis = true
			basisName = data[i+1]
			OutputLogger.Print("Parsing input. Basis block found: ", basisName)
		case "task":
			if _, err := findBlockEnd(i, data, "Task"); err != nil {
				return mol, cfg, err
			}
			cfg.Task = strings.ToLower(strings.TrimSpace(data[i+1]))
		case "scf":
			end, err := findBlockEnd(i, data, "Scf")
			if err != nil {
				return mol, cfg, err
			}
			if err := parseSCFBlock(data[i+1:end], &cfg.SCF); err != nil {
				return mol, cfg, err
			}
		case "scan":
			end, err := findBlockEnd(i, data, "Scan")
			if err != nil {
				return mol, cfg, err
			}
			if err := parseScanBlock(data[i+1:end], &cfg.Scan); err != nil {
				return mol, cfg, err
			}
		case "dump":
			cfg.Dump = true
		case "nprocs":
			nprocs, _ := strconv.Atoi(words[1])
			runtime.GOMAXPROCS(nprocs)
			OutputLogger.Print("Parsing input. Number of threads set to " + words[1] + ".")
		}
	}

	if !atoms {
		if cfg.Task != "scan" {
			return mol, cfg, fmt.Errorf("parsing input: no Atoms block found")
		}
	} else {
		if err := mol.addAtoms(data, atomStart+1, atomEnd-1); err != nil {
			return mol, cfg, err
		}
	}
	if !basis {
		OutputLogger.Println("Parsing input. No Basis found. Using default basis: STO-3G.")
		basisName = "sto-3g"
	}
	cfg.SCF.BasisName = strings.ToLower(strings.Fields(basisName)[0])
	if atoms {
		if err := mol.getBasis(basisName); err != nil {
			return mol, cfg, err
		}
	}
	return mol, cfg, nil
}

func parseSCFBlock(lines []string, cfg *SCFConfig) error {
	for _, ln := range lines {
		words := strings.Fields(ln)
		if len(words) < 2 {
			continue
		}
		var err error
		switch strings.ToLower(words[0]) {
		case "tole":
			cfg.TolE, err = strconv.ParseFloat(words[1], 64)
		case "told":
			cfg.TolD, err = strconv.ParseFloat(words[1], 64)
		case "maxiter":
			cfg.MaxIter, err = strconv.Atoi(words[1])
		case "algorithm":
			cfg.Algorithm = strings.ToLower(words[1])
		default:
			err = fmt.Errorf("unknown Scf option %q", words[0])
		}
		if err != nil {
			return fmt.Errorf("parsing Scf block: %w", err)
		}
	}
	return nil
}

func parseScanBlock(lines []string, sc *ScanConfig) error {
	for _, ln := range lines {
		words := strings.Fields(ln)
		if len(words) == 0 {
			continue
		}
		var err error
		switch strings.ToLower(words[0]) {
		case "start":
			sc.Start, err = strconv.ParseFloat(words[1], 64)
		case "step":
			sc.Step, err = strconv.ParseFloat(words[1], 64)
		case "steps":
			sc.Steps, err = strconv.Atoi(words[1])
		case "mp2":
			sc.WithMP2 = true
		case "plot":
			sc.PlotFile = words[1]
		default:
			err = fmt.Errorf("unknown Scan option %q", words[0])
		}
		if err != nil {
			return fmt.Errorf("parsing Scan block: %w", err)
		}
	}
	return nil
}

func findBlockEnd(n int, data []string, bname string) (int, error) {
	for i := n; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) > 0 {
			if strings.ToLower(words[0]) == "end" {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no end of block %s", bname)
}

func runMP2(mol *Molecule, cfg RunConfig, outBase string) error {
	res, wf, err := PerturbationEnergy(mol, cfg.SCF)
	if err != nil {
		return err
	}

	OutputLogger.Println("Nuclei Repulsion Energy: ", mol.NucNuc(), " a.u.")
	printOutputDelimiter()

	fmt.Println("Mean-field energy = ", res.EHF, " a.u.")
	fmt.Println("MP2 opposite-spin energy = ", res.EOS, " a.u.")
	fmt.Println("MP2 same-spin energy = ", res.ESS, " a.u.")
	fmt.Println("MP2 total energy = ", res.Total, " a.u.")
	OutputLogger.Println("Mean-field energy = ", res.EHF, " a.u.")
	OutputLogger.Println("MP2 correlation energy = ", res.Ecorr(), " a.u.")
	OutputLogger.Println("MP2 total energy = ", res.Total, " a.u.")

	// Independent minimal-basis mean-field run for the accuracy figure.
	Emin, err := MeanFieldEnergy(mol.Atoms, STO3GParams(len(mol.Atoms)), cfg.SCF)
	if err != nil {
		return err
	}
	fmt.Println("Minimal-basis mean-field energy = ", Emin, " a.u.")
	OutputLogger.Println("Minimal-basis mean-field energy = ", Emin, " a.u.")

	pct, err := Compare(Emin, res.Total)
	if err != nil {
		return err
	}
	fmt.Println("Relative deviation = ", pct, " %")
	OutputLogger.Println("Relative deviation = ", pct, " %")

	if cfg.Dump {
		moInts := TransformAOMO(wf.ERI, wf.C, wf.Nocc)
		if err := WriteTensorGZ(wf.ERI, outBase+".eri.txt.gz"); err != nil {
			return err
		}
		if err := WriteTensorGZ(moInts, outBase+".moints.txt.gz"); err != nil {
			return err
		}
		if err := WriteMatrixGZ(denseRows(wf.C), outBase+".mocoef.txt.gz"); err != nil {
			return err
		}
		OutputLogger.Println("Integral tensors dumped to ", outBase+".eri.txt.gz", " and ", outBase+".moints.txt.gz")
		OutputLogger.Println("MO coefficients dumped to ", outBase+".mocoef.txt.gz")
	}
	return nil
}

func runRHFTask(mol *Molecule, cfg RunConfig) error {
	wf, err := RunRHF(mol, cfg.SCF)
	if err != nil {
		return err
	}
	OutputLogger.Println("Nuclei Repulsion Energy: ", mol.NucNuc(), " a.u.")
	OutputLogger.Println("Orbital energies: ", wf.Eps)
	printOutputDelimiter()
	fmt.Println("MO coefficients:")
	PrintDense(wf.C)
	fmt.Println("Final total energy = ", wf.Energy, " a.u.")
	OutputLogger.Println("Final total energy = ", wf.Energy, " a.u.")
	return nil
}

func runScanTask(cfg RunConfig) error {
	points, err := RunScan(cfg.SCF.BasisName, cfg.SCF, cfg.Scan)
	if err != nil {
		return err
	}
	OutputLogger.Println("R(H-H)/A      E(RHF)/a.u.     E(MP2)/a.u.")
	for _, pt := range points {
		OutputLogger.Printf("%8.4f  %14.8f  %14.8f\n", pt.Dist, pt.EHF, pt.EMP2)
		fmt.Printf("%8.4f  %14.8f  %14.8f\n", pt.Dist, pt.EHF, pt.EMP2)
	}
	if cfg.Scan.PlotFile != "" {
		fmt.Println("Potential energy curve written to ", cfg.Scan.PlotFile)
	}
	return nil
}

func main() {
	runtime.GOMAXPROCS(1)

	if len(os.Args) < 2 {
		log.Fatal("No input file.")
	}
	inpFname := os.Args[1]
	splitInpFname := strings.Split(inpFname, ".")
	fExt := strings.ToLower(splitInpFname[len(splitInpFname)-1])
	outFname := inpFname[0:(len(inpFname)-len(fExt))] + "out"
	outBase := strings.TrimSuffix(outFname, ".out")
	fmt.Println("Output file: ", outFname)

	initLog(outFname)
	InfoLogger.Println("Starting goMP2...")
	appInfo()

	var mol Molecule
	cfg := RunConfig{Task: "mp2", SCF: DefaultSCFConfig()}

	if fExt == "xyz" {
		atoms, err := ReadXYZGeometry(inpFname)
		if err != nil {
			ErrorLogger.Fatal(err)
		}
		mol.Atoms = atoms
		if err := mol.getBasis(cfg.SCF.BasisName); err != nil {
			ErrorLogger.Fatal(err)
		}
	} else {
		inpData, err := ReadFileLines(inpFname)
		if err != nil {
			ErrorLogger.Fatal("Cannot read input file: ", err)
		}
		OutputLogger.Println("Input file content:")
		printOutputDelimiter()
		for _, i := range inpData {
			OutputLogger.Println(i)
		}
		printOutputDelimiter()

		mol, cfg, err = processInput(inpData)
		if err != nil {
			ErrorLogger.Fatal(err)
		}
	}

	var err error
	switch cfg.Task {
	case "rhf":
		err = runRHFTask(&mol, cfg)
	case "mp2":
		err = runMP2(&mol, cfg, outBase)
	case "scan":
		err = runScanTask(cfg)
	default:
		err = fmt.Errorf("unknown task %q", cfg.Task)
	}
	if err != nil {
		ErrorLogger.Fatal(err)
	}

	MyMemDebug()
	InfoLogger.Println("Exiting goMP2...")
	fmt.Println("goMP2 done.")
}

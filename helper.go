// helper.go --  This file is part of goMP2 project.
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
	"bufio"
	"fmt"
	"io/fs"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

func ReadFileLines(fname string) ([]string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	return result, scanner.Err()
}

func readFSLines(fsys fs.FS, fname string) ([]string, error) {
	b, err := fs.ReadFile(fsys, fname)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n"), nil
}

// WriteMatrixGZ dumps a square matrix as gzip-compressed fixed-width text.
func WriteMatrixGZ(data [][]float64, fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	for i := 0; i < len(data); i++ {
		for j := 0; j < len(data[i]); j++ {
			fmt.Fprintf(zw, "%16.10f", data[i][j])
		}
		fmt.Fprintln(zw)
	}
	return zw.Close()
}

// WriteTensorGZ dumps a rank-4 tensor as gzip-compressed text, one line per
// (i,j) pair of the two leading indices.
func WriteTensorGZ(data [][][][]float64, fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	for i := range data {
		for j := range data[i] {
			fmt.Fprintf(zw, "%4d %4d", i, j)
			for k := range data[i][j] {
				for l := range data[i][j][k] {
					fmt.Fprintf(zw, " %16.10f", data[i][j][k][l])
				}
			}
			fmt.Fprintln(zw)
		}
	}
	return zw.Close()
}

func flatten(arr [][]float64) []float64 {
	dim := len(arr)
	res := make([]float64, dim*dim)
	for i := range arr {
		for j := range arr[i] {
			res[i*dim+j] = arr[i][j]
		}
	}
	return res
}

func denseRows(D *mat.Dense) [][]float64 {
	r, c := D.Dims()
	res := make([][]float64, r)
	for i := 0; i < r; i++ {
		res[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			res[i][j] = D.At(i, j)
		}
	}
	return res
}

func PrintDense(D *mat.Dense) {
	fa := mat.Formatted(D, mat.Prefix("    "), mat.Squeeze())
	fmt.Printf("    %.8f\n", fa)
}

// MatrixSqrtInverse returns S^{-1/2} via the eigendecomposition of S.
func MatrixSqrtInverse(S [][]float64) [][]float64 {
	nBasis := len(S)
	Smat := mat.NewSymDense(nBasis, flatten(S))
	var eigsym mat.EigenSym
	ok := eigsym.Factorize(Smat, true)
	if !ok {
		ErrorLogger.Println("S eigendecomposition failed")
	}
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	vals := eigsym.Values(nil)
	sqrtVec := make([]float64, nBasis)
	for i := range vals {
		sqrtVec[i] = math.Sqrt(vals[i])
	}
	diagM := mat.NewDiagDense(nBasis, sqrtVec)
	var SSqrtInv mat.Dense
	SSqrtInv.Mul(&ev, diagM)
	ev.Inverse(&ev)
	SSqrtInv.Mul(&SSqrtInv, &ev)
	SSqrtInv.Inverse(&SSqrtInv)

	result := make([][]float64, nBasis)
	for i := range result {
		result[i] = SSqrtInv.RawRowView(i)
	}
	return result
}

func MyMemDebug() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	OutputLogger.Printf("Alloc: %d bytes\n", memStats.Alloc)
	OutputLogger.Printf("TotalAlloc: %d bytes\n", memStats.TotalAlloc)
	OutputLogger.Printf("HeapAlloc: %d bytes\n", memStats.HeapAlloc)
	OutputLogger.Printf("HeapSys: %d bytes\n", memStats.HeapSys)
}

package net

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadCSV loads a dataset from a CSV file. The last outputs columns of each
// row are the targets and the other columns the inputs.
// hasHeader skips the first line if true.
func LoadCSV(filename string, outputs int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}
	if len(records) <= startRow {
		return nil, errors.Wrap(ErrDatasetShape, "csv file has no data rows")
	}

	numCols := len(records[startRow])
	if outputs <= 0 || outputs >= numCols {
		return nil, errors.Wrapf(ErrDatasetShape, "%d output columns of %d", outputs, numCols)
	}

	numSamples := len(records) - startRow
	ds := &Dataset{
		Inputs:  make([][]float64, numSamples),
		Targets: make([][]float64, numSamples),
	}

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, errors.Wrapf(ErrDatasetShape, "inconsistent number of columns at row %d", i)
		}

		row := make([]float64, numCols)
		for j, valStr := range record {
			row[j], err = strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse value at row %d, col %d", i, j)
			}
		}

		split := numCols - outputs
		ds.Inputs[i-startRow] = row[:split:split]
		ds.Targets[i-startRow] = row[split:]
	}

	return ds, nil
}

// Normalize performs min-max normalization of every input column into [0, 1].
func (d *Dataset) Normalize() {
	if len(d.Inputs) == 0 {
		return
	}

	numFeatures := len(d.Inputs[0])
	lo := append([]float64(nil), d.Inputs[0]...)
	hi := append([]float64(nil), d.Inputs[0]...)

	for _, sample := range d.Inputs {
		for i, val := range sample {
			lo[i] = min(lo[i], val)
			hi[i] = max(hi[i], val)
		}
	}

	for _, sample := range d.Inputs {
		for i := 0; i < numFeatures; i++ {
			diff := hi[i] - lo[i]
			if diff != 0 {
				sample[i] = (sample[i] - lo[i]) / diff
			} else {
				sample[i] = 0
			}
		}
	}
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test) sharing the rows of d.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	splitIdx := int(float64(len(d.Inputs)) * ratio)

	train := &Dataset{
		Inputs:  d.Inputs[:splitIdx],
		Targets: d.Targets[:splitIdx],
	}

	test := &Dataset{
		Inputs:  d.Inputs[splitIdx:],
		Targets: d.Targets[splitIdx:],
	}

	return train, test
}

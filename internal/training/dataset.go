package training

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

//go:embed iris.csv
var irisCSV []byte

// IrisFeatureNames are the feature names of the Iris dataset, in column order
var IrisFeatureNames = []string{"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)"}

// IrisTargetNames fixes the label encoding: index i is species i
var IrisTargetNames = []string{"setosa", "versicolor", "virginica"}

// Dataset is a labelled feature matrix
type Dataset struct {
	FeatureNames []string
	TargetNames  []string
	X            [][]float64
	Y            []int
}

// Iris returns the embedded Iris dataset
func Iris() (*Dataset, error) {
	return ParseCSV(bytes.NewReader(irisCSV), IrisFeatureNames, IrisTargetNames)
}

// ParseCSV reads rows of feature columns followed by a class name column.
// The first row is a header and is skipped.
func ParseCSV(r io.Reader, featureNames, targetNames []string) (*Dataset, error) {
	labels := make(map[string]int, len(targetNames))
	for i, name := range targetNames {
		labels[name] = i
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(featureNames) + 1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	ds := &Dataset{
		FeatureNames: append([]string(nil), featureNames...),
		TargetNames:  append([]string(nil), targetNames...),
	}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, len(featureNames))
		for i := range featureNames {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, i+1, err)
			}
			row[i] = v
		}

		label, ok := labels[record[len(featureNames)]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown class %q", line, record[len(featureNames)])
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, label)
	}

	if len(ds.X) == 0 {
		return nil, errors.New("dataset is empty")
	}
	return ds, nil
}

// Split shuffles rows with seed and holds out testRatio of them
func Split(x [][]float64, y []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	order := rand.New(rand.NewSource(seed)).Perm(len(x))
	testSize := int(float64(len(x)) * testRatio)

	for i, idx := range order {
		if i < testSize {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		} else {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		}
	}
	return trainX, trainY, testX, testY
}

package preprocessing_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/nd-02110114/chemprep/core/tensor"
	"github.com/nd-02110114/chemprep/preprocessing"
)

// ExampleMinMaxScaler demonstrates fitting and transforming a feature
// table.
func ExampleMinMaxScaler() {
	x := tensor.MustNew([]float64{
		0.1, 10, 0.3,
		0.2, 20, 0.1,
		-0.3, 30, 0,
		0.4, -40, 0,
	}, 4, 3)

	scaler := preprocessing.NewMinMaxScaler()
	if err := scaler.Fit(x, nil, 1); err != nil {
		return
	}

	scaled, err := scaler.Transform(x, 1)
	if err != nil {
		return
	}

	fmt.Printf("Scaled first row: [%.2f, %.2f, %.2f]\n",
		scaled.At(0, 0), scaled.At(0, 1), scaled.At(0, 2))

	// Output: Scaled first row: [0.57, 0.71, 1.00]
}

// ExampleMinMaxScaler_fitTransform demonstrates the combined
// fit-and-transform call with a column subset.
func ExampleMinMaxScaler_fitTransform() {
	x := tensor.MustNew([]float64{
		0.1, 10, 0.3,
		0.2, 20, 0.1,
		-0.3, 30, 0,
		0.4, -40, 0,
	}, 4, 3)

	scaler := preprocessing.NewMinMaxScaler()
	// only columns 1 and 2 are rescaled; column 0 passes through
	scaled, err := scaler.FitTransform(x, []int{1, 2}, 1)
	if err != nil {
		return
	}

	fmt.Printf("Column 0 unchanged: %.1f\n", scaled.At(0, 0))
	fmt.Printf("Column 2 rescaled: %.2f\n", scaled.At(0, 2))

	// Output: Column 0 unchanged: 0.1
	// Column 2 rescaled: 1.00
}

// ExampleMinMaxScaler_inverseTransform demonstrates recovering original
// units from normalized values.
func ExampleMinMaxScaler_inverseTransform() {
	x := tensor.MustNew([]float64{
		1, 100,
		2, 200,
		3, 300,
	}, 3, 2)

	scaler := preprocessing.NewMinMaxScaler()
	scaled, err := scaler.FitTransform(x, nil, 1)
	if err != nil {
		return
	}
	restored, err := scaler.InverseTransform(scaled, 1)
	if err != nil {
		return
	}

	fmt.Printf("Restored last row: [%.0f, %.0f]\n", restored.At(2, 0), restored.At(2, 1))

	// Output: Restored last row: [3, 300]
}

// ExampleMinMaxScaler_FitTransformMatrix demonstrates the gonum matrix
// convenience API.
func ExampleMinMaxScaler_FitTransformMatrix() {
	X := mat.NewDense(3, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
	})

	scaler := preprocessing.NewMinMaxScaler()
	scaled, err := scaler.FitTransformMatrix(X)
	if err != nil {
		return
	}

	fmt.Printf("Scaled middle row: [%.1f, %.1f]\n", scaled.At(1, 0), scaled.At(1, 1))

	// Output: Scaled middle row: [0.5, 0.5]
}

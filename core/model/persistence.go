package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/nd-02110114/chemprep/pkg/errors"
)

// StateExporter is implemented by estimators that expose their fitted
// state as named attributes. Attributes that are absent (an unfitted
// estimator, or an "all columns" index set) must be represented by
// explicit marker attributes, never by a missing key whose meaning is
// ambiguous.
type StateExporter interface {
	// ExportState returns the estimator's persisted attributes.
	ExportState() (map[string]interface{}, error)

	// StateModelType identifies the estimator in the envelope, so a
	// document cannot be loaded into the wrong estimator type.
	StateModelType() string
}

// StateImporter is implemented by estimators that can restore themselves
// from named attributes produced by a StateExporter.
type StateImporter interface {
	ImportState(attrs map[string]interface{}) error
	StateModelType() string
}

// stateEnvelope is the on-disk JSON document.
type stateEnvelope struct {
	ModelType string                 `json:"model_type"`
	Version   string                 `json:"version"`
	Attrs     map[string]interface{} `json:"attrs"`
}

// stateFormatVersion is bumped when the attribute layout changes.
const stateFormatVersion = "1"

// SaveModelToWriter writes a gob snapshot of the estimator to w. The
// estimator's exported fields, including the embedded BaseEstimator
// state, are encoded.
func SaveModelToWriter(m interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.NewModelError("model.SaveModelToWriter", "gob encoding failed", err)
	}
	return nil
}

// LoadModelFromReader restores a gob snapshot from r into m, which must
// be a pointer to the same estimator type that was saved.
func LoadModelFromReader(m interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return errors.NewModelError("model.LoadModelFromReader", "gob decoding failed", err)
	}
	return nil
}

// SaveModel writes a gob snapshot of the estimator to path.
func SaveModel(m interface{}, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("model.SaveModel", "cannot create file", err)
	}
	defer func() { _ = f.Close() }()
	return SaveModelToWriter(m, f)
}

// LoadModel restores a gob snapshot from path into m.
func LoadModel(m interface{}, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewModelError("model.LoadModel", "cannot open file", err)
	}
	defer func() { _ = f.Close() }()
	return LoadModelFromReader(m, f)
}

// SaveModelCompressed writes a zstd-compressed gob snapshot to path.
func SaveModelCompressed(m interface{}, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("model.SaveModelCompressed", "cannot create file", err)
	}
	defer func() { _ = f.Close() }()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return errors.NewModelError("model.SaveModelCompressed", "zstd writer", err)
	}
	if err := SaveModelToWriter(m, zw); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.NewModelError("model.SaveModelCompressed", "zstd close", err)
	}
	return nil
}

// LoadModelCompressed restores a zstd-compressed gob snapshot from path.
func LoadModelCompressed(m interface{}, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewModelError("model.LoadModelCompressed", "cannot open file", err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return errors.NewModelError("model.LoadModelCompressed", "zstd reader", err)
	}
	defer zr.Close()
	return LoadModelFromReader(m, zr)
}

// ExportStateToWriter writes the estimator's named attributes as a JSON
// document. The format is portable across processes and explicit about
// absent values, unlike a gob snapshot which is tied to Go types.
func ExportStateToWriter(e StateExporter, w io.Writer) error {
	attrs, err := e.ExportState()
	if err != nil {
		return errors.NewModelError("model.ExportStateToWriter", "state export failed", err)
	}
	env := stateEnvelope{
		ModelType: e.StateModelType(),
		Version:   stateFormatVersion,
		Attrs:     attrs,
	}
	data, err := sonic.Marshal(&env)
	if err != nil {
		return errors.NewModelError("model.ExportStateToWriter", "json encoding failed", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.NewModelError("model.ExportStateToWriter", "write failed", err)
	}
	return nil
}

// ImportStateFromReader restores an estimator from a JSON state document
// written by ExportStateToWriter. The document's model type must match
// the estimator's.
func ImportStateFromReader(imp StateImporter, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.NewModelError("model.ImportStateFromReader", "read failed", err)
	}
	var env stateEnvelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return errors.NewModelError("model.ImportStateFromReader", "json decoding failed", err)
	}
	if env.ModelType != imp.StateModelType() {
		return errors.NewValueError("model.ImportStateFromReader",
			"model type mismatch: document holds "+env.ModelType+", estimator is "+imp.StateModelType())
	}
	if err := imp.ImportState(env.Attrs); err != nil {
		return errors.NewModelError("model.ImportStateFromReader", "state import failed", err)
	}
	return nil
}

// ExportStateToFile writes the estimator's JSON state document to path.
func ExportStateToFile(e StateExporter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("model.ExportStateToFile", "cannot create file", err)
	}
	defer func() { _ = f.Close() }()
	return ExportStateToWriter(e, f)
}

// ImportStateFromFile restores an estimator from the JSON state document
// at path.
func ImportStateFromFile(imp StateImporter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewModelError("model.ImportStateFromFile", "cannot open file", err)
	}
	defer func() { _ = f.Close() }()
	return ImportStateFromReader(imp, f)
}

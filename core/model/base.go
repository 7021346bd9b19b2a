// Package model provides the core abstractions shared by chemprep
// estimators.
//
// The package defines:
//
//   - BaseEstimator: fitted-state tracking, hyperparameters and logging
//   - Model persistence: gob snapshots, optionally zstd-compressed
//   - State export: JSON documents keyed by named attributes, so a fitted
//     estimator can be restored in another process without re-observing
//     the training data
//
// Every estimator embeds BaseEstimator so that "was this fitted?" is a
// single explicit state check rather than a convention:
//
//	type MinMaxScaler struct {
//		model.BaseEstimator
//		// estimator-specific fields
//	}
//
//	func (m *MinMaxScaler) Fit(...) error {
//		// learn statistics
//		m.SetFitted()
//		return nil
//	}
package model

import (
	"github.com/nd-02110114/chemprep/pkg/log"
)

// EstimatorState represents the learning state of an estimator.
type EstimatorState int

const (
	// NotFitted indicates the estimator has not observed any data.
	NotFitted EstimatorState = iota
	// Fitted indicates the estimator holds learned statistics.
	Fitted
)

// BaseEstimator is the base structure for all estimators.
type BaseEstimator struct {
	// State holds the learning state. Public for gob encoding.
	State EstimatorState

	// ModelType identifies the estimator, e.g. "MinMaxScaler".
	ModelType string

	// Version is the estimator's state format version.
	Version string

	// logger receives structured events. Not persisted.
	logger log.Logger

	// hyperparameters holds construction-time parameters.
	hyperparameters map[string]interface{}
}

// IsFitted reports whether the estimator has been fitted. Transform-style
// operations must check this before touching learned state.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by estimator
// implementations at the end of a successful Fit, never by callers.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to the unfitted state. The estimator must
// be fitted again before it can transform data.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// SetLogger attaches a structured logger to the estimator.
//
//	scaler.SetLogger(log.GetLoggerWithName("MinMaxScaler"))
func (e *BaseEstimator) SetLogger(logger log.Logger) {
	e.logger = logger
}

// GetLogger returns the attached logger, or nil.
func (e *BaseEstimator) GetLogger() log.Logger {
	return e.logger
}

// LogInfo logs an info-level event if a logger is attached. Fields are
// key-value pairs.
func (e *BaseEstimator) LogInfo(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Info(msg, fields...)
	}
}

// LogDebug logs a debug-level event if a logger is attached.
func (e *BaseEstimator) LogDebug(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, fields...)
	}
}

// LogError logs an error-level event if a logger is attached.
func (e *BaseEstimator) LogError(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Error(msg, fields...)
	}
}

// GetParams retrieves the estimator's hyperparameters. When deep is true
// a copy is returned so the caller cannot mutate internal state.
func (e *BaseEstimator) GetParams(deep bool) map[string]interface{} {
	if e.hyperparameters == nil {
		return make(map[string]interface{})
	}
	if !deep {
		return e.hyperparameters
	}
	params := make(map[string]interface{}, len(e.hyperparameters))
	for k, v := range e.hyperparameters {
		params[k] = v
	}
	return params
}

// SetParams merges params into the estimator's hyperparameters.
func (e *BaseEstimator) SetParams(params map[string]interface{}) error {
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{}, len(params))
	}
	for k, v := range params {
		e.hyperparameters[k] = v
	}
	return nil
}

// Clone returns a copy of the base estimator state. Learned buffers of
// the embedding estimator are not copied here.
func (e *BaseEstimator) Clone() *BaseEstimator {
	clone := &BaseEstimator{
		State:           e.State,
		ModelType:       e.ModelType,
		Version:         e.Version,
		hyperparameters: make(map[string]interface{}, len(e.hyperparameters)),
	}
	for k, v := range e.hyperparameters {
		clone.hyperparameters[k] = v
	}
	return clone
}

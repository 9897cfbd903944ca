package econ

import "errors"

// Sentinel errors for the normalizer and FX provider, matching the error
// taxonomy of spec.md §7. Callers should compare with errors.Is.
var (
	// ErrMissingFXRate: currency conversion was requested but the supplied
	// FXTable has no rate for one of the two codes involved.
	ErrMissingFXRate = errors.New("econ: missing fx rate")

	// ErrUnsupportedConversion: the rule matrix blocks a conversion and the
	// caller forced it anyway (e.g. explicit currency target on a type
	// whose rules.allowCurrency is false).
	ErrUnsupportedConversion = errors.New("econ: unsupported conversion for indicator type")

	// ErrInvalidTimeBasis: a time target was requested but no source time
	// basis could be inferred, and the indicator type requires one.
	ErrInvalidTimeBasis = errors.New("econ: invalid or missing time basis")

	// ErrFXSourceFailure: a single FX source failed; the provider should
	// try the next source in priority order.
	ErrFXSourceFailure = errors.New("econ: fx source failure")

	// ErrFXUnavailable: all FX sources and the fallback table (if any)
	// failed or were absent.
	ErrFXUnavailable = errors.New("econ: fx unavailable")

	// ErrInvalidFXRate: the FX validator rejected a non-positive or
	// non-finite rate.
	ErrInvalidFXRate = errors.New("econ: invalid fx rate")

	// ErrAggregationEmpty: an aggregation was requested over zero inputs.
	ErrAggregationEmpty = errors.New("econ: aggregation over empty input")

	// ErrUnitMismatch: aggregation inputs carry different units and
	// normalizeFirst was not requested.
	ErrUnitMismatch = errors.New("econ: unit mismatch in aggregation")

	// ErrNonPositiveInput: geometric/harmonic mean received a non-positive
	// value, weighted mean's weights sum to zero, or a CPI index needed by
	// DeflateToBaseYear is missing or non-positive.
	ErrNonPositiveInput = errors.New("econ: non-positive or missing input")
)

// Package assess implements the story assessment pipeline: deterministic
// scoring of a work item's acceptance criteria and linked test-case text,
// rule-based workflow compliance validation over its lifecycle history, and
// a confidence-gated advisory override layer.
//
// Every stage is a pure function over externally supplied raw data. No stage
// holds state across stories, and no stage returns an error for data-quality
// reasons: missing or malformed input maps to a documented lowest-but-defined
// score. Running the pipeline twice on identical input yields identical
// output.
package assess

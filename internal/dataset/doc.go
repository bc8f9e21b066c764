// Package dataset loads the student exam table and enriches it.
//
// Tables are gota dataframes. Transform renames the categorical columns to
// their canonical names, folds partial education levels and derives the
// total score, the two-decimal average and the Distinction/Pass/Fail result.
// Records projects an enriched table into typed rows for reporting.
package dataset

// Package report serializes scan reports to their output artifacts.
package report

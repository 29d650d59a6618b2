// Package util holds small helpers shared by the locus packages.
package util

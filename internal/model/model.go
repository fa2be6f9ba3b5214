// Package model holds the guest record, its wire input type and the
// validator that sits between the two.
package model

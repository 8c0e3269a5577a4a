// Package toolapi exposes the authkeys SDK operations as JSON over HTTP, for
// use by the tool registration layer.
package toolapi

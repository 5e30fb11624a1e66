// Package projenrc defines the projen components of the repository: the
// VS Code client for bslsp and its release workflow.
package projenrc

func StrPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

package integrations_test

import (
	"fmt"

	"github.com/matzehuels/pycompat/pkg/integrations"
)

func ExampleNormalizePkgName() {
	// Package names are normalized to lowercase with hyphens
	fmt.Println(integrations.NormalizePkgName("Flask"))
	fmt.Println(integrations.NormalizePkgName("typing_extensions"))
	fmt.Println(integrations.NormalizePkgName("requests "))
	// Output:
	// flask
	// typing-extensions
	// requests
}

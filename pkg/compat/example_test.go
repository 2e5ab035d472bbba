package compat_test

import (
	"fmt"

	"github.com/matzehuels/pycompat/pkg/compat"
	"github.com/matzehuels/pycompat/pkg/requirement"
)

func ExampleEvaluate() {
	req, _ := requirement.Parse("requests==2.25.1")
	res := compat.Evaluate(req, []string{
		"License :: OSI Approved :: Apache Software License",
		"Programming Language :: Python :: 3.7",
		"Programming Language :: Python :: 3.8",
	}, "3.8")

	fmt.Println(res.Name, res.Compatible, res.Versions)
	// Output:
	// requests true [3.7 3.8]
}

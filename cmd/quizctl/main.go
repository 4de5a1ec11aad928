// Command quizctl scores quiz answers and validates question banks offline.
package main

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

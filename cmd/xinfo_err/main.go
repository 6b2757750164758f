// Package main implements xinfo_err - lists extra-info recorder error codes and their descriptions.
package main

import (
	"fmt"

	"secdebug/internal/common"
)

func main() {
	fmt.Println("Extra Info Error Code List")
	fmt.Println()

	for _, code := range common.ErrorCodes() {
		name, msg, _ := common.Describe(code)
		fmt.Printf("%d: %s - %s\n", code, name, msg)
	}
}

package main

import "github.com/bastionzero/commutative/cmd/commutative/cmd"

func main() {
	cmd.Execute()
}

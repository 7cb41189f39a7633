package main

import "github.com/Laisky/shamir-recovery/cmd"

func main() {
	cmd.Execute()
}

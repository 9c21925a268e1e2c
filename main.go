package main

import "github.com/smoreno/fichaje/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/grailbio/tcrpair/cmd/bio-tcrpair/cmd"

func main() {
	cmd.Run()
}

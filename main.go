package main

import "github.com/shaharia-lab/billingmail/cmd"

func main() {
	cmd.Execute()
}

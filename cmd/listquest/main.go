package main

import "listquest/cmd/listquest/root"

func main() {
	root.Execute()
}

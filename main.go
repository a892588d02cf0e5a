package main

import "daft-scraper/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/jonesrussell/seoaudit/cmd"

func main() {
	cmd.Execute()
}

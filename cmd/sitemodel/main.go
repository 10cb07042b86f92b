// Command sitemodel manages the pages of a site model from the command line.
package main

import "github.com/mesh-intelligence/sitemodel/internal/cli"

func main() {
	cli.Execute()
}

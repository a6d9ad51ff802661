package main

import "github.com/KaramelBytes/geoqaqc-cli/cmd"

func main() {
	cmd.Execute()
}

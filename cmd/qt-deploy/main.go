package main

import "github.com/oshokin/qt-deploy/cmd/qt-deploy/cmd"

func main() {
	cmd.Execute()
}

// Package main is the entry point for the traefik-replace CLI.
package main

import "github.com/mouse-blink/traefik-replace/cmd"

func main() {
	cmd.Execute()
}

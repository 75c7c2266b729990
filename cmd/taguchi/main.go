// Command taguchi is the CLI entry point for the Taguchi experiment engine
// (spec.md §6): it drives a new experiment from a config file, resumes one
// from a state file, or renders a completed state file as HTML/Markdown.
package main

import "os"

func main() {
	os.Exit(Execute())
}

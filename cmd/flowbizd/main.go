package main

import "github.com/natbkgift/flowbiz-infra-n8n/internal/cmd"

func main() {
	cmd.Execute()
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/etlcdb/cmd/etl/cmd"

func main() {
	cmd.Execute()
}
